package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/braynkanth/assistant-tui/api"
	"github.com/braynkanth/assistant-tui/triage"
)

type tutorialStep struct {
	title   string
	content string
}

var tutorialSteps = []tutorialStep{
	{
		title:   "Welcome to AI Assistant",
		content: "Your inbox and calendar in one place. The backend reads and analyzes your mail so you can focus on what matters.",
	},
	{
		title:   "Step 1: Secure Login",
		content: "Run `assistant-tui login` in another terminal. Authentication goes through Google OAuth; your password never touches this client.",
	},
	{
		title:   "Step 2: Grant Permissions",
		content: "When the browser prompts you, allow access to Gmail and Calendar. Without those grants the assistant cannot read mail or schedule meetings.",
	},
	{
		title:   "Step 3: Sync & Relax",
		content: "Press S on the dashboard to sync. Recent emails are analyzed, categorized, and given suggested replies.",
	},
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing terminal size..."
	}

	statusBarHeight := 1
	contentHeight := m.height - statusBarHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var mainUIView string
	switch m.screen {
	case screenLanding:
		mainUIView = m.renderLanding(contentHeight)
	case screenTutorial:
		mainUIView = m.renderTutorial(contentHeight)
	case screenDashboard:
		mainUIView = m.renderDashboard(contentHeight)
	}

	if m.compose != nil {
		mainUIView = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, m.renderCompose())
	}

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mainUIView, m.renderStatusBar()))
}

func (m Model) renderLanding(height int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("AI Personal Assistant"))
	b.WriteString("\n\n")
	b.WriteString("Your Inbox, Mastered.\n")
	b.WriteString("Real-time AI analysis. Turn chaos into clarity.\n\n")
	if m.checkingSession {
		b.WriteString(m.spin.View() + " Checking session...\n")
	} else {
		b.WriteString("To get started, run:\n\n")
		b.WriteString("    assistant-tui login\n\n")
		b.WriteString("then restart this program. Press T for a quick tour.\n")
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) renderTutorial(height int) string {
	step := tutorialSteps[m.tutorialStep]

	progress := make([]string, len(tutorialSteps))
	for i := range tutorialSteps {
		if i <= m.tutorialStep {
			progress[i] = "●"
		} else {
			progress[i] = "○"
		}
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s",
		strings.Join(progress, " "),
		TitleStyle.Render(step.title),
		wrapText(step.content, max(30, min(m.width-20, 64))),
	)
	box := ContentBoxStyle.Render(content)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderDashboard(height int) string {
	tabBar := m.renderTabBar()
	bodyHeight := height - lipgloss.Height(tabBar)
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	var body string
	switch m.tab {
	case tabOverview:
		body = m.renderOverview()
	case tabInbox:
		body = m.renderInbox()
	case tabAssistant:
		body = m.renderAssistant(bodyHeight)
	case tabCalendar:
		body = m.renderCalendar()
	}

	body = lipgloss.NewStyle().Width(m.width).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, body)
}

func (m Model) renderTabBar() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tabState(i) == m.tab {
			parts[i] = TabActiveStyle.Render(label)
		} else {
			parts[i] = TabInactiveStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderOverview() string {
	total := len(m.emails)
	urgent := 0
	action := 0
	for _, e := range m.emails {
		if e.Priority == "P1" {
			urgent++
		}
		if e.RequiresAction {
			action++
		}
	}

	stats := fmt.Sprintf("%s   %s   %s",
		ContentBoxStyle.Render(fmt.Sprintf("%d\nTotal Emails", total)),
		ContentBoxStyle.Render(fmt.Sprintf("%d\nUrgent (P1)", urgent)),
		ContentBoxStyle.Render(fmt.Sprintf("%d\nAction Items", action)),
	)

	barWidth := max(10, min(m.width-30, 40))
	priorityChart := renderBarChart(countBy(m.emails, func(e api.Email) string { return e.Priority }), barWidth)
	intentChart := renderBarChart(countBy(m.emails, func(e api.Email) string { return e.Intent }), barWidth)

	return lipgloss.JoinVertical(lipgloss.Left,
		stats,
		"",
		HeaderKeyStyle.Render("Priority Distribution"),
		priorityChart,
		"",
		HeaderKeyStyle.Render("Intent Categories"),
		intentChart,
	)
}

func (m Model) renderFilterChips() string {
	parts := make([]string, len(triage.Categories))
	for i, cat := range triage.Categories {
		if cat == m.filter {
			parts[i] = ChipActiveStyle.Render(string(cat))
		} else {
			parts[i] = ChipInactiveStyle.Render(string(cat))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderInbox() string {
	chips := m.renderFilterChips()
	visible := m.visibleEmails()
	if len(visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, chips, "", "  Inbox Zero")
	}

	itemWidth := max(20, m.width-8)

	itemsThatFit := m.getNumItemsThatFitInList()
	startIdx := m.viewportTopLine
	if startIdx > len(visible) {
		startIdx = len(visible)
	}
	endIdx := startIdx + max(1, itemsThatFit)
	if endIdx > len(visible) {
		endIdx = len(visible)
	}

	items := []string{chips}
	for i := startIdx; i < endIdx; i++ {
		email := visible[i]
		items = append(items, formatEmailListItem(email, i == m.selectedIdx, itemWidth))
		if email.ID == m.expandedEmailID {
			items = append(items, m.renderExpandedEmail(email, itemWidth))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m Model) renderExpandedEmail(email api.Email, width int) string {
	var b strings.Builder

	body := email.Body
	if body == "" {
		body = email.Snippet
	}
	b.WriteString(BodyStyle.Render(wrapText(strings.ReplaceAll(body, "\r\n", "\n"), width-4)))
	b.WriteString("\n\n")

	b.WriteString(InsightStyle.Render("✨ " + truncate(email.Insight(), width-6)))
	b.WriteString("\n")

	tags := []string{IntentTagStyle.Render("[" + email.Intent + "]")}
	switch email.Sentiment {
	case "Positive":
		tags = append(tags, PositiveTagStyle.Render("[Positive]"))
	case "Negative":
		tags = append(tags, NegativeTagStyle.Render("[Negative]"))
	case "Neutral":
		tags = append(tags, NeutralTagStyle.Render("[Neutral]"))
	}
	b.WriteString(strings.Join(tags, " "))

	if email.SuggestedReply != "" {
		b.WriteString("\n\n")
		b.WriteString(HeaderKeyStyle.Render("Suggested reply:"))
		b.WriteString("\n")
		b.WriteString(SuggestedReplyStyle.Render(wrapText(email.SuggestedReply, width-4)))
	}

	return ContentBoxStyle.Render(b.String())
}

func (m Model) renderAssistant(height int) string {
	inputView := m.chatInput.View()
	transcriptHeight := height - lipgloss.Height(inputView) - 2
	if transcriptHeight < 0 {
		transcriptHeight = 0
	}

	var lines []string
	if len(m.chat) == 0 {
		lines = append(lines,
			"",
			"  I have read your recent emails. Ask me anything!",
			"  Try: \"What was the last email from Google?\" or \"Summarize today's updates\"",
		)
	}
	msgWidth := max(20, m.width*3/4)
	for _, msg := range m.chat {
		text := wrapText(msg.Text, msgWidth)
		switch msg.Sender {
		case api.SenderUser:
			lines = append(lines, lipgloss.PlaceHorizontal(m.width-2, lipgloss.Right, ChatUserStyle.Render(text)))
		case api.SenderSystem:
			lines = append(lines, ChatSystemStyle.Render(text))
		default:
			lines = append(lines, ChatAgentStyle.Render(text))
		}
		lines = append(lines, "")
	}
	if m.chatBusy {
		lines = append(lines, m.spin.View()+" thinking...")
	}

	// Keep the tail of the transcript in view.
	transcript := lines
	if len(lines) > transcriptHeight && transcriptHeight > 0 {
		transcript = lines[len(lines)-transcriptHeight:]
	}

	body := lipgloss.NewStyle().Height(transcriptHeight).Render(strings.Join(transcript, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, body, "", inputView)
}

func (m Model) renderCalendar() string {
	if m.loadingMeetings {
		return "\n  " + m.spin.View() + " Loading schedule..."
	}

	now := time.Now()
	upcoming, past := m.splitMeetings(now)
	if len(upcoming) == 0 && len(past) == 0 {
		return "\n  No meetings found.\n  Ask the assistant to schedule one!"
	}

	var sections []string
	if len(upcoming) > 0 {
		sections = append(sections, HeaderKeyStyle.Render("Upcoming Events"))
		sections = append(sections, m.renderMeetingGroup(upcoming, false))
	} else {
		sections = append(sections, "  No upcoming meetings.")
	}
	if len(past) > 0 {
		sections = append(sections, MeetingPastStyle.Render("Past Events"))
		sections = append(sections, MeetingPastStyle.Render(m.renderMeetingGroup(past, true)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderMeetingGroup(meetings []api.Meeting, isPast bool) string {
	var b strings.Builder
	lastDate := ""
	for i, mt := range meetings {
		date := mt.StartTime.Local().Format("Monday, January 2")
		if date != lastDate {
			b.WriteString(MeetingDateStyle.Render(date))
			b.WriteString("\n")
			lastDate = date
		}

		cursor := "  "
		if !isPast && i == m.meetingIdx {
			cursor = SelectedBoxCharStyle.Render("> ")
		}
		status := mt.Status
		if isPast {
			status = "Completed"
		}
		b.WriteString(fmt.Sprintf("%s%s  %s  (%s)  [%s]\n",
			cursor,
			truncate(mt.Title, 40),
			formatMeetingRange(mt.StartTime.Time, mt.EndTime.Time),
			truncate(mt.Participants, 40),
			status,
		))
	}
	return b.String()
}

func (m Model) renderCompose() string {
	f := m.compose
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Compose Email"))
	b.WriteString("\n\n")
	b.WriteString(LabelStyle.Render("To") + "\n" + f.to.View() + "\n\n")
	b.WriteString(LabelStyle.Render("Subject") + "\n" + f.subject.View() + "\n\n")
	b.WriteString(LabelStyle.Render("Message") + "\n" + f.body.View() + "\n\n")

	switch {
	case f.picker:
		b.WriteString("Rewrite: [1]Formal [2]Casual [3]Shorten [4]Fix Grammar (any other key cancels)")
	case f.rewriting:
		b.WriteString(m.spin.View() + " Rewriting...")
	case f.sending:
		b.WriteString(m.spin.View() + " Sending...")
	default:
		b.WriteString("[Tab]:Next Field | [Ctrl+S]:Send | [Ctrl+R]:Rewrite | [Esc]:Discard")
	}

	return ModalStyle.Render(b.String())
}

func (m Model) renderStatusBar() string {
	styleToUse := StatusBarNormalStyle
	if m.statusIsError {
		styleToUse = StatusBarErrorStyle
	} else if m.statusIsTemp {
		styleToUse = StatusBarSuccessStyle
	}
	return styleToUse.Width(m.width).Render(truncate(m.statusBarText, max(0, m.width-2)))
}

// wrapText is a simple greedy word wrapper.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, paragraph := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
