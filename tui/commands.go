package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/braynkanth/assistant-tui/api"
	"github.com/braynkanth/assistant-tui/notify"
	"github.com/braynkanth/assistant-tui/session"
)

// restoreSessionCmd runs the startup session restore: persist a fresh
// token if one was supplied, then validate whatever is stored.
func restoreSessionCmd(ctx context.Context, store *session.Store, baseURL, fresh string) tea.Cmd {
	return func() tea.Msg {
		sess := session.Restore(ctx, store, fresh, func(token string) session.Identity {
			return api.New(baseURL, token)
		})
		return sessionMsg{sess: sess}
	}
}

func fetchEmailsCmd(ctx context.Context, c *api.Client) tea.Cmd {
	return func() tea.Msg {
		emails, err := c.Emails(ctx)
		if err != nil {
			return errMsg{op: opFetchEmails, err: err}
		}
		return emailsMsg(emails)
	}
}

func syncCmd(ctx context.Context, c *api.Client) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Sync(ctx)
		if err != nil {
			return errMsg{op: opSync, err: err}
		}
		return syncDoneMsg(res)
	}
}

func fetchMeetingsCmd(ctx context.Context, c *api.Client) tea.Cmd {
	return func() tea.Msg {
		meetings, err := c.Meetings(ctx)
		if err != nil {
			return errMsg{op: opFetchMeetings, err: err}
		}
		return meetingsMsg(meetings)
	}
}

func deleteMeetingCmd(ctx context.Context, c *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		if err := c.DeleteMeeting(ctx, id); err != nil {
			return errMsg{op: opDeleteMeeting, err: err}
		}
		return meetingDeletedMsg{}
	}
}

func loadChatHistoryCmd(ctx context.Context, c *api.Client) tea.Cmd {
	return func() tea.Msg {
		history, err := c.ChatHistory(ctx)
		if err != nil {
			return errMsg{op: opChatHistory, err: err}
		}
		return chatHistoryMsg(history)
	}
}

// chatCmd posts one user turn. history is the transcript as it stood
// before the optimistic append.
func chatCmd(ctx context.Context, c *api.Client, message string, history []api.ChatMessage) tea.Cmd {
	return func() tea.Msg {
		reply, err := c.Chat(ctx, message, history)
		if err != nil {
			return errMsg{op: opChat, err: err}
		}
		return chatReplyMsg(reply)
	}
}

func clearChatCmd(ctx context.Context, c *api.Client) tea.Cmd {
	return func() tea.Msg {
		if err := c.ClearChatHistory(ctx); err != nil {
			return errMsg{op: opClearChat, err: err}
		}
		return chatClearedMsg{}
	}
}

func rewriteCmd(ctx context.Context, c *api.Client, text string, style api.RewriteStyle) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Rewrite(ctx, text, style)
		if err != nil {
			return errMsg{op: opRewrite, err: err}
		}
		return rewriteDoneMsg(result)
	}
}

func sendEmailCmd(ctx context.Context, c *api.Client, to, subject, body string) tea.Cmd {
	return func() tea.Msg {
		if err := c.SendEmail(ctx, to, subject, body); err != nil {
			return errMsg{op: opSend, err: err}
		}
		return sendDoneMsg{}
	}
}

// waitForNotificationCmd blocks on the scheduler stream and re-queues
// itself from Update when a notification arrives.
func waitForNotificationCmd(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		return notificationMsg(<-ch)
	}
}

// statusTickCmd refreshes the status bar clock.
func statusTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return statusTickMsg{Time: t}
	})
}
