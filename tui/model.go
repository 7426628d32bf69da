package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/braynkanth/assistant-tui/api"
	"github.com/braynkanth/assistant-tui/config"
	"github.com/braynkanth/assistant-tui/notify"
	"github.com/braynkanth/assistant-tui/session"
	"github.com/braynkanth/assistant-tui/triage"
)

type screenState int

const (
	screenLanding screenState = iota
	screenTutorial
	screenDashboard
)

type tabState int

const (
	tabOverview tabState = iota
	tabInbox
	tabAssistant
	tabCalendar
)

var tabNames = []string{"Overview", "Inbox", "Assistant", "Calendar"}

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClearChat
	confirmDeleteMeeting
)

const (
	emailListItemHeight = 4
	toastDuration       = 5 * time.Second
)

type Model struct {
	ctx        context.Context
	cfg        config.Config
	cfgManager *config.Manager
	store      *session.Store
	sched      *notify.Scheduler
	freshToken string

	sess   *session.Session
	client *api.Client

	screen       screenState
	tab          tabState
	tutorialStep int

	emails          []api.Email
	filter          triage.Category
	selectedIdx     int
	viewportTopLine int
	expandedEmailID int
	syncing         bool

	meetings        []api.Meeting
	meetingIdx      int
	loadingMeetings bool

	chat      []api.ChatMessage
	chatInput textinput.Model
	chatBusy  bool

	compose *composeForm

	confirm          confirmAction
	confirmMeetingID int

	spin spinner.Model

	width, height int
	statusBarText string
	statusIsError bool
	statusIsTemp  bool

	checkingSession bool

	// notifyWaiting is true once a reader is blocked on the scheduler
	// stream. The reader survives logout, so at most one is ever
	// registered.
	notifyWaiting bool
}

func NewModel(ctx context.Context, cfgManager *config.Manager, store *session.Store, sched *notify.Scheduler, freshToken string) Model {
	ci := textinput.New()
	ci.Placeholder = "Type your request here..."
	ci.CharLimit = 500
	ci.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	cfg := cfgManager.Get()
	return Model{
		ctx:           ctx,
		cfg:           cfg,
		cfgManager:    cfgManager,
		store:         store,
		sched:         sched,
		freshToken:    freshToken,
		sess:          &session.Session{},
		screen:        screenLanding,
		filter:        triage.CategoryAll,
		chatInput:     ci,
		spin:          sp,
		statusBarText: "Checking session...",

		checkingSession: true,
	}
}

func (m Model) Init() tea.Cmd {
	log.Println("TUI Model Init called")
	return tea.Batch(
		restoreSessionCmd(m.ctx, m.store, m.cfg.APIBaseURL, m.freshToken),
		statusTickCmd(1*time.Second),
		m.spin.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatInput.Width = max(20, m.width-8)
		if m.compose != nil {
			m.compose.resize(m.width)
		}
		m.ensureSelectedVisible()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionMsg:
		m.checkingSession = false
		m.sess = msg.sess
		if !m.sess.Authenticated() {
			m.screen = screenLanding
			if m.freshToken != "" || m.storedTokenExisted() {
				m.showTemporaryStatus("Not authenticated. Log in to continue.", true, &cmds)
			} else {
				m.setStandardStatus()
			}
			m.freshToken = ""
			return m, tea.Batch(cmds...)
		}
		m.freshToken = ""
		m.client = api.New(m.cfg.APIBaseURL, m.sess.Token)
		if m.cfg.TutorialSeen {
			m.screen = screenDashboard
		} else {
			m.screen = screenTutorial
			m.tutorialStep = 0
		}
		m.setStandardStatus()
		m.sched.Start(m.ctx, m.client)
		cmds = append(cmds,
			fetchEmailsCmd(m.ctx, m.client),
			fetchMeetingsCmd(m.ctx, m.client),
			loadChatHistoryCmd(m.ctx, m.client),
		)
		if !m.notifyWaiting {
			m.notifyWaiting = true
			cmds = append(cmds, waitForNotificationCmd(m.sched.Notifications()))
		}

	case emailsMsg:
		m.emails = msg
		if m.selectedIdx >= len(m.emails) {
			m.selectedIdx = max(0, len(m.emails)-1)
		}
		m.ensureSelectedVisible()

	case syncDoneMsg:
		m.syncing = false
		if msg.Count > 0 {
			m.showTemporaryStatus(fmt.Sprintf("%d new emails analyzed.", msg.Count), false, &cmds)
			if m.client != nil {
				cmds = append(cmds, fetchEmailsCmd(m.ctx, m.client))
			}
		} else {
			m.showTemporaryStatus("No new emails found.", false, &cmds)
		}

	case meetingsMsg:
		m.meetings = msg
		m.loadingMeetings = false
		if m.meetingIdx >= len(m.meetings) {
			m.meetingIdx = max(0, len(m.meetings)-1)
		}

	case meetingDeletedMsg:
		m.showTemporaryStatus("Meeting cancelled.", false, &cmds)
		if m.client != nil {
			m.loadingMeetings = true
			cmds = append(cmds, fetchMeetingsCmd(m.ctx, m.client))
		}

	case chatHistoryMsg:
		// Server history replaces the transcript wholesale.
		m.chat = msg

	case chatReplyMsg:
		m.chatBusy = false
		m.chat = append(m.chat, api.ChatMessage{Sender: api.SenderAgent, Text: string(msg)})

	case chatClearedMsg:
		m.showTemporaryStatus("Chat history cleared.", false, &cmds)

	case rewriteDoneMsg:
		if m.compose != nil {
			m.compose.rewriting = false
			m.compose.body.SetValue(string(msg))
		}

	case sendDoneMsg:
		m.compose = nil
		m.showTemporaryStatus("Email sent.", false, &cmds)

	case notificationMsg:
		n := notify.Notification(msg)
		cmds = append(cmds, waitForNotificationCmd(m.sched.Notifications()))
		// A notification that raced a logout is dropped silently.
		if m.screen == screenDashboard {
			log.Printf("TUI: meeting notification: %s", n.Message())
			m.showTemporaryStatus(n.Message(), false, &cmds)
		}

	case errMsg:
		return m.handleError(msg)

	case statusTickMsg:
		if !m.statusIsTemp {
			m.setStandardStatus()
		}
		cmds = append(cmds, statusTickCmd(1*time.Second))

	case clearTempStatusMsg:
		if m.statusIsTemp {
			m.statusIsTemp = false
			m.statusIsError = false
			m.setStandardStatus()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleError folds a failed fetcher call into the state slice it
// belongs to. Any 401 destroys the session; everything else degrades
// to a visible message and leaves prior state intact.
func (m Model) handleError(msg errMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	log.Printf("TUI: %s failed: %v", msg.op, msg.err)

	if errors.Is(msg.err, api.ErrUnauthorized) {
		m.forceLogout(&cmds, "Session expired. Please log in again.")
		return m, tea.Batch(cmds...)
	}

	switch msg.op {
	case opSync:
		m.syncing = false
		m.showTemporaryStatus("Sync failed: "+msg.err.Error(), true, &cmds)
	case opChat:
		m.chatBusy = false
		m.chat = append(m.chat, api.ChatMessage{Sender: api.SenderSystem, Text: "Error connecting to agent."})
	case opSend:
		if m.compose != nil {
			m.compose.sending = false
		}
		m.showTemporaryStatus("Failed to send: "+msg.err.Error(), true, &cmds)
	case opRewrite:
		if m.compose != nil {
			m.compose.rewriting = false
		}
		m.showTemporaryStatus("Rewrite failed: "+msg.err.Error(), true, &cmds)
	case opFetchMeetings:
		m.loadingMeetings = false
		m.showTemporaryStatus(msg.op+" failed: "+msg.err.Error(), true, &cmds)
	case opClearChat:
		// Local transcript stays cleared either way.
		m.showTemporaryStatus("Could not clear server history: "+msg.err.Error(), true, &cmds)
	default:
		m.showTemporaryStatus(msg.op+" failed: "+msg.err.Error(), true, &cmds)
	}
	return m, tea.Batch(cmds...)
}

// forceLogout clears the credential and every per-session state slice
// and returns to the landing screen.
func (m *Model) forceLogout(cmds *[]tea.Cmd, reason string) {
	m.store.Clear()
	m.sess = &session.Session{}
	m.client = nil
	m.sched.Stop()
	m.sched.Drain()
	m.screen = screenLanding
	m.emails = nil
	m.meetings = nil
	m.chat = nil
	m.chatBusy = false
	m.syncing = false
	m.compose = nil
	m.confirm = confirmNone
	m.expandedEmailID = 0
	m.selectedIdx = 0
	m.showTemporaryStatus(reason, true, cmds)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.compose != nil {
		return m.updateCompose(msg)
	}

	if m.confirm != confirmNone {
		return m.handleConfirmKey(msg)
	}

	switch m.screen {
	case screenLanding:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "t":
			m.screen = screenTutorial
			m.tutorialStep = 0
		}

	case screenTutorial:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter", " ", "right":
			if m.tutorialStep < len(tutorialSteps)-1 {
				m.tutorialStep++
			} else {
				m.finishTutorial()
			}
		case "left":
			if m.tutorialStep > 0 {
				m.tutorialStep--
			}
		case "esc":
			m.finishTutorial()
		}

	case screenDashboard:
		return m.handleDashboardKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) finishTutorial() {
	if m.sess.Authenticated() {
		m.screen = screenDashboard
	} else {
		m.screen = screenLanding
	}
	if err := m.cfgManager.SetTutorialSeen(true); err != nil {
		log.Printf("TUI: could not persist tutorial state: %v", err)
	}
	m.setStandardStatus()
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	key := msg.String()

	// Keys that work regardless of the focused tab.
	switch key {
	case "tab":
		m.tab = (m.tab + 1) % tabState(len(tabNames))
		m.onTabEnter(&cmds)
		return m, tea.Batch(cmds...)
	case "shift+tab":
		m.tab = (m.tab + tabState(len(tabNames)) - 1) % tabState(len(tabNames))
		m.onTabEnter(&cmds)
		return m, tea.Batch(cmds...)
	}

	if m.tab == tabAssistant {
		return m.handleAssistantKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "1", "2", "3", "4":
		m.tab = tabState(int(key[0] - '1'))
		m.onTabEnter(&cmds)
	case "s":
		m.startSync(&cmds)
	case "c":
		m.openCompose("", "", "", &cmds)
	case "L":
		m.forceLogout(&cmds, "Logged out.")
	default:
		switch m.tab {
		case tabInbox:
			m.handleInboxKey(key, &cmds)
		case tabCalendar:
			m.handleCalendarKey(key, &cmds)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) onTabEnter(cmds *[]tea.Cmd) {
	if m.client == nil {
		return
	}
	switch m.tab {
	case tabCalendar:
		m.loadingMeetings = true
		*cmds = append(*cmds, fetchMeetingsCmd(m.ctx, m.client))
	case tabAssistant:
		*cmds = append(*cmds, m.chatInput.Focus())
	}
}

func (m *Model) startSync(cmds *[]tea.Cmd) {
	// Disabled while a sync is already in flight.
	if m.syncing || m.client == nil {
		return
	}
	m.syncing = true
	m.updateStatusBar("Syncing emails...")
	*cmds = append(*cmds, syncCmd(m.ctx, m.client))
}

func (m *Model) handleInboxKey(key string, cmds *[]tea.Cmd) {
	visible := m.visibleEmails()
	switch key {
	case "up", "k":
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.ensureSelectedVisible()
		}
	case "down", "j":
		if m.selectedIdx < len(visible)-1 {
			m.selectedIdx++
			m.ensureSelectedVisible()
		}
	case "right", "l":
		m.setFilter(triage.Next(m.filter))
	case "left", "h":
		m.setFilter(triage.Prev(m.filter))
	case "enter":
		if e, ok := m.selectedEmail(); ok {
			if m.expandedEmailID == e.ID {
				m.expandedEmailID = 0
			} else {
				m.expandedEmailID = e.ID
			}
		}
	case "r":
		if e, ok := m.selectedEmail(); ok {
			m.openCompose(e.Sender, "Re: "+e.Subject, "", cmds)
		}
	case "a":
		if e, ok := m.selectedEmail(); ok {
			body := e.SuggestedReply
			if body == "" {
				first := e.Sender
				if i := strings.IndexByte(first, ' '); i > 0 {
					first = first[:i]
				}
				body = fmt.Sprintf("Hi %s,\n\n\n\nBest,\n%s", first, m.userName())
			}
			m.openCompose(e.Sender, "Re: "+e.Subject, body, cmds)
		}
	}
}

func (m *Model) handleCalendarKey(key string, cmds *[]tea.Cmd) {
	upcoming, _ := m.splitMeetings(time.Now())
	switch key {
	case "up", "k":
		if m.meetingIdx > 0 {
			m.meetingIdx--
		}
	case "down", "j":
		if m.meetingIdx < len(upcoming)-1 {
			m.meetingIdx++
		}
	case "r":
		if m.client != nil {
			m.loadingMeetings = true
			*cmds = append(*cmds, fetchMeetingsCmd(m.ctx, m.client))
		}
	case "d":
		if m.meetingIdx >= 0 && m.meetingIdx < len(upcoming) {
			m.confirm = confirmDeleteMeeting
			m.confirmMeetingID = upcoming[m.meetingIdx].ID
			m.updateStatusBar(fmt.Sprintf("Cancel meeting %q? [y/n]", upcoming[m.meetingIdx].Title))
		}
	}
}

func (m Model) handleAssistantKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg.String() {
	case "enter":
		m.sendChatMessage(&cmds)
	case "ctrl+n":
		m.confirm = confirmClearChat
		m.updateStatusBar("Clear chat history? [y/n]")
	case "esc":
		m.tab = tabOverview
	default:
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// sendChatMessage optimistically appends the user turn and posts the
// prior transcript plus the new message. The optimistic message is
// never rolled back; a failure appends a system error after it.
func (m *Model) sendChatMessage(cmds *[]tea.Cmd) {
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" || m.chatBusy || m.client == nil {
		return
	}
	history := append([]api.ChatMessage(nil), m.chat...)
	m.chat = append(m.chat, api.ChatMessage{Sender: api.SenderUser, Text: text})
	m.chatInput.Reset()
	m.chatBusy = true
	*cmds = append(*cmds, chatCmd(m.ctx, m.client, text, history))
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	action := m.confirm
	m.confirm = confirmNone
	m.setStandardStatus()

	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}

	switch action {
	case confirmClearChat:
		// Local transcript clears regardless of what the server says.
		m.chat = nil
		m.chatBusy = false
		if m.client != nil {
			cmds = append(cmds, clearChatCmd(m.ctx, m.client))
		}
	case confirmDeleteMeeting:
		if m.client != nil && m.confirmMeetingID != 0 {
			cmds = append(cmds, deleteMeetingCmd(m.ctx, m.client, m.confirmMeetingID))
		}
		m.confirmMeetingID = 0
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setFilter(cat triage.Category) {
	m.filter = cat
	m.selectedIdx = 0
	m.viewportTopLine = 0
	m.expandedEmailID = 0
}

func (m Model) visibleEmails() []api.Email {
	return triage.Filter(m.emails, m.filter)
}

func (m Model) selectedEmail() (api.Email, bool) {
	visible := m.visibleEmails()
	if m.selectedIdx < 0 || m.selectedIdx >= len(visible) {
		return api.Email{}, false
	}
	return visible[m.selectedIdx], true
}

// splitMeetings partitions meetings at render time: upcoming keeps
// everything that has not yet ended.
func (m Model) splitMeetings(now time.Time) (upcoming, past []api.Meeting) {
	for _, mt := range m.meetings {
		if mt.Upcoming(now) {
			upcoming = append(upcoming, mt)
		} else {
			past = append(past, mt)
		}
	}
	return upcoming, past
}

func (m Model) userName() string {
	if m.sess != nil && m.sess.User != nil {
		return m.sess.User.Name
	}
	return ""
}

func (m Model) storedTokenExisted() bool {
	token, err := m.store.Load()
	return err == nil && token != ""
}

func (m *Model) showTemporaryStatus(text string, isError bool, cmds *[]tea.Cmd) {
	m.statusBarText = text
	m.statusIsError = isError
	m.statusIsTemp = true
	*cmds = append(*cmds, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearTempStatusMsg{}
	}))
}

func (m *Model) updateStatusBar(text string) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = false
}

func (m *Model) setStandardStatus() {
	if m.statusIsTemp || m.confirm != confirmNone {
		return
	}

	switch m.screen {
	case screenLanding:
		m.updateStatusBar("[Q/Ctrl+C]:Quit | [T]:Tutorial")
	case screenTutorial:
		m.updateStatusBar("[Enter]:Next | [Esc]:Skip | [Q/Ctrl+C]:Quit")
	case screenDashboard:
		who := m.userName()
		statusMsg := fmt.Sprintf(" %s | %s | %d emails ",
			who, time.Now().Format("15:04:05"), len(m.emails))
		keyHints := "[Tab]:Switch | [S]:Sync | [C]:Compose | [L]:Log out"
		switch m.tab {
		case tabInbox:
			keyHints += " | [↑↓/jk]:Nav | [←→]:Filter | [Enter]:Expand | [R]:Reply | [A]:AI Reply"
		case tabAssistant:
			keyHints = "[Tab]:Switch | [Enter]:Send | [Ctrl+N]:New Chat"
		case tabCalendar:
			keyHints += " | [↑↓/jk]:Nav | [D]:Cancel | [R]:Refresh"
		}
		if m.syncing {
			statusMsg = " Syncing... " + statusMsg
		}
		m.updateStatusBar(statusMsg + "| " + keyHints)
	}
}

func (m *Model) ensureSelectedVisible() {
	visible := m.visibleEmails()
	if len(visible) == 0 {
		m.viewportTopLine = 0
		return
	}

	itemsThatFit := m.getNumItemsThatFitInList()
	if itemsThatFit <= 0 {
		m.viewportTopLine = m.selectedIdx
		return
	}

	if m.selectedIdx < m.viewportTopLine {
		m.viewportTopLine = m.selectedIdx
	} else if m.selectedIdx >= m.viewportTopLine+itemsThatFit {
		m.viewportTopLine = m.selectedIdx - itemsThatFit + 1
	}

	if m.viewportTopLine < 0 {
		m.viewportTopLine = 0
	}
	maxTop := len(visible) - itemsThatFit
	if maxTop < 0 {
		maxTop = 0
	}
	if m.viewportTopLine > maxTop {
		m.viewportTopLine = maxTop
	}
}

func (m Model) getNumItemsThatFitInList() int {
	// Status bar, tab bar, and filter chips each take a line plus
	// spacing.
	available := m.height - 6
	if available < 0 {
		available = 0
	}
	return available / emailListItemHeight
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
