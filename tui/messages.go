package tui

import (
	"time"

	"github.com/braynkanth/assistant-tui/api"
	"github.com/braynkanth/assistant-tui/notify"
	"github.com/braynkanth/assistant-tui/session"
)

// Fetcher operations, used to route failures to the right state slice.
const (
	opFetchEmails   = "fetch emails"
	opSync          = "sync"
	opFetchMeetings = "fetch meetings"
	opDeleteMeeting = "delete meeting"
	opChatHistory   = "load chat history"
	opChat          = "chat"
	opClearChat     = "clear chat history"
	opRewrite       = "rewrite"
	opSend          = "send email"
)

// sessionMsg carries the result of the startup session restore.
type sessionMsg struct{ sess *session.Session }

type emailsMsg []api.Email

type syncDoneMsg api.SyncResult

type meetingsMsg []api.Meeting

type meetingDeletedMsg struct{}

type chatHistoryMsg []api.ChatMessage

// chatReplyMsg is the agent's answer to the last user turn.
type chatReplyMsg string

type chatClearedMsg struct{}

type rewriteDoneMsg string

type sendDoneMsg struct{}

// notificationMsg is one meeting announcement from the scheduler.
type notificationMsg notify.Notification

// errMsg is a failed fetcher call tagged with its operation.
type errMsg struct {
	op  string
	err error
}

func (e errMsg) Error() string { return e.err.Error() }

// A message for timed status updates.
type statusTickMsg struct{ Time time.Time }

// Message to clear a temporary status message after a timeout.
type clearTempStatusMsg struct{}
