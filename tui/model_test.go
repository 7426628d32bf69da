package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/braynkanth/assistant-tui/api"
	"github.com/braynkanth/assistant-tui/config"
	"github.com/braynkanth/assistant-tui/notify"
	"github.com/braynkanth/assistant-tui/session"
	"github.com/braynkanth/assistant-tui/triage"
)

func newTestModel(t *testing.T, tutorialSeen bool) Model {
	t.Helper()
	dir := t.TempDir()

	cfgManager, err := config.NewManager(filepath.Join(dir, "assistant.json"))
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}
	if err := cfgManager.SetTutorialSeen(tutorialSeen); err != nil {
		t.Fatal(err)
	}

	store := session.NewStore(filepath.Join(dir, "token.json"))
	sched := notify.NewScheduler(time.Hour)
	t.Cleanup(sched.Stop)

	return NewModel(context.Background(), cfgManager, store, sched, "")
}

// loggedIn drives the model through a successful session restore.
func loggedIn(t *testing.T, m Model) Model {
	t.Helper()
	sess := &session.Session{
		Token: "tok",
		User:  &api.User{ID: 1, Name: "Ada Lovelace", Email: "ada@x.y"},
	}
	updated, _ := m.Update(sessionMsg{sess: sess})
	return updated.(Model)
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSessionRestoreUnauthenticatedStaysOnLanding(t *testing.T) {
	m := newTestModel(t, true)
	updated, _ := m.Update(sessionMsg{sess: &session.Session{}})
	m = updated.(Model)

	if m.screen != screenLanding {
		t.Errorf("screen = %v, want landing", m.screen)
	}
	if m.client != nil {
		t.Error("client built for an unauthenticated session")
	}
}

func TestSessionRestoreRoutesToDashboard(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	if m.screen != screenDashboard {
		t.Errorf("screen = %v, want dashboard", m.screen)
	}
	if m.client == nil {
		t.Error("no client after successful restore")
	}
}

func TestSessionRestoreRoutesFirstRunToTutorial(t *testing.T) {
	m := loggedIn(t, newTestModel(t, false))
	if m.screen != screenTutorial {
		t.Errorf("screen = %v, want tutorial on first run", m.screen)
	}
	if m.tutorialStep != 0 {
		t.Errorf("tutorialStep = %d, want 0", m.tutorialStep)
	}
}

func TestFinishTutorialPersistsFlag(t *testing.T) {
	m := loggedIn(t, newTestModel(t, false))

	// Step through every tutorial page, then one more Enter to finish.
	for range tutorialSteps {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(Model)
	}
	if m.screen != screenDashboard {
		t.Errorf("screen = %v, want dashboard after the tutorial", m.screen)
	}
	if !m.cfgManager.Get().TutorialSeen {
		t.Error("tutorial completion not persisted")
	}
}

func TestFailedSyncLeavesEmailsIntact(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))

	emails := []api.Email{
		{ID: 1, Subject: "keep me", Priority: "P1"},
		{ID: 2, Subject: "me too", Priority: "P2"},
	}
	updated, _ := m.Update(emailsMsg(emails))
	m = updated.(Model)
	m.syncing = true

	updated, _ = m.Update(errMsg{op: opSync, err: errors.New("backend down")})
	m = updated.(Model)

	if m.syncing {
		t.Error("syncing still true after failure")
	}
	if !reflect.DeepEqual(m.emails, emails) {
		t.Errorf("emails changed on sync failure: %+v", m.emails)
	}
	if !m.statusIsError || !m.statusIsTemp {
		t.Error("sync failure did not surface as a temporary error status")
	}
}

func TestChatOptimisticAppendAndReply(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	m.tab = tabAssistant
	m.chatInput.SetValue("hi")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if len(m.chat) != 1 || m.chat[0].Sender != api.SenderUser || m.chat[0].Text != "hi" {
		t.Fatalf("chat after send = %+v, want the optimistic user turn", m.chat)
	}
	if !m.chatBusy {
		t.Error("chatBusy not set while awaiting the agent")
	}
	if m.chatInput.Value() != "" {
		t.Error("input not cleared after send")
	}

	updated, _ = m.Update(chatReplyMsg("hello"))
	m = updated.(Model)

	want := []api.ChatMessage{
		{Sender: api.SenderUser, Text: "hi"},
		{Sender: api.SenderAgent, Text: "hello"},
	}
	if !reflect.DeepEqual(m.chat, want) {
		t.Errorf("chat = %+v, want %+v", m.chat, want)
	}
	if m.chatBusy {
		t.Error("chatBusy still set after the reply")
	}
}

func TestChatFailureKeepsOptimisticMessage(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	m.tab = tabAssistant
	m.chatInput.SetValue("hi")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(errMsg{op: opChat, err: errors.New("timeout")})
	m = updated.(Model)

	if len(m.chat) != 2 {
		t.Fatalf("chat has %d messages, want optimistic turn plus system error", len(m.chat))
	}
	if m.chat[0].Sender != api.SenderUser {
		t.Errorf("first message sender = %q, want the optimistic user turn kept", m.chat[0].Sender)
	}
	if m.chat[1].Sender != api.SenderSystem {
		t.Errorf("second message sender = %q, want system", m.chat[1].Sender)
	}
	if m.chatBusy {
		t.Error("chatBusy still set after failure")
	}
}

func TestEmptyChatInputIsNotSent(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	m.tab = tabAssistant
	m.chatInput.SetValue("   ")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if len(m.chat) != 0 {
		t.Errorf("blank input produced a chat turn: %+v", m.chat)
	}
	if m.chatBusy {
		t.Error("chatBusy set for a blank send")
	}
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	updated, _ := m.Update(emailsMsg([]api.Email{{ID: 1}}))
	m = updated.(Model)

	err := fmt.Errorf("GET /api/emails: %w", api.ErrUnauthorized)
	updated, _ = m.Update(errMsg{op: opFetchEmails, err: err})
	m = updated.(Model)

	if m.screen != screenLanding {
		t.Errorf("screen = %v, want landing after 401", m.screen)
	}
	if m.sess.Authenticated() {
		t.Error("session still authenticated after 401")
	}
	if m.client != nil {
		t.Error("client kept after 401")
	}
	if m.emails != nil || m.meetings != nil || m.chat != nil {
		t.Error("per-session state not cleared on logout")
	}
	token, _ := m.store.Load()
	if token != "" {
		t.Errorf("stored token = %q, want cleared", token)
	}
}

func TestOtherFailuresDoNotLogout(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	updated, _ := m.Update(errMsg{op: opFetchMeetings, err: errors.New("503")})
	m = updated.(Model)

	if m.screen != screenDashboard {
		t.Errorf("screen = %v, want dashboard kept on a non-401 failure", m.screen)
	}
	if !m.sess.Authenticated() {
		t.Error("session dropped on a non-401 failure")
	}
}

func TestFilterCyclingResetsSelection(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	m.tab = tabInbox
	updated, _ := m.Update(emailsMsg([]api.Email{
		{ID: 1, Priority: "P1"},
		{ID: 2, Priority: "P2"},
		{ID: 3, Priority: "P1"},
	}))
	m = updated.(Model)
	m.selectedIdx = 2
	m.expandedEmailID = 3

	updated, _ = m.Update(keyRunes('l'))
	m = updated.(Model)

	if m.filter != triage.CategoryUrgent {
		t.Errorf("filter = %q, want %q", m.filter, triage.CategoryUrgent)
	}
	if m.selectedIdx != 0 {
		t.Errorf("selectedIdx = %d, want reset to 0", m.selectedIdx)
	}
	if m.expandedEmailID != 0 {
		t.Error("expanded email survives a filter change")
	}
	if got := m.visibleEmails(); len(got) != 2 {
		t.Errorf("visible emails = %d, want 2 urgent", len(got))
	}
}

func TestSyncInFlightGuard(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))

	updated, _ := m.Update(keyRunes('s'))
	m = updated.(Model)
	if !m.syncing {
		t.Fatal("first sync keypress did not start a sync")
	}

	// A second press while syncing must not fire another command.
	var cmds []tea.Cmd
	m.startSync(&cmds)
	if len(cmds) != 0 {
		t.Error("sync started while one was already in flight")
	}
}

func TestClearChatConfirmClearsLocally(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	m.tab = tabAssistant
	m.chat = []api.ChatMessage{{Sender: api.SenderUser, Text: "old"}}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)
	if m.confirm != confirmClearChat {
		t.Fatal("ctrl+n did not arm the clear confirmation")
	}

	updated, _ = m.Update(keyRunes('y'))
	m = updated.(Model)
	if m.chat != nil {
		t.Errorf("chat = %+v, want cleared locally", m.chat)
	}
	if m.confirm != confirmNone {
		t.Error("confirmation still armed")
	}
}

func TestConfirmDeclineKeepsState(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	m.tab = tabAssistant
	m.chat = []api.ChatMessage{{Sender: api.SenderUser, Text: "old"}}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)
	updated, _ = m.Update(keyRunes('n'))
	m = updated.(Model)

	if len(m.chat) != 1 {
		t.Error("declining the confirmation cleared the transcript")
	}
}

func TestDeleteMeetingConfirmFlow(t *testing.T) {
	now := time.Now()
	m := loggedIn(t, newTestModel(t, true))
	m.tab = tabCalendar

	meetings := []api.Meeting{
		{ID: 5, Title: "Standup", StartTime: api.Time{Time: now.Add(time.Hour)}, EndTime: api.Time{Time: now.Add(2 * time.Hour)}},
		{ID: 9, Title: "Design review", StartTime: api.Time{Time: now.Add(3 * time.Hour)}, EndTime: api.Time{Time: now.Add(4 * time.Hour)}},
	}
	updated, _ := m.Update(meetingsMsg(meetings))
	m = updated.(Model)
	m.meetingIdx = 1

	updated, _ = m.Update(keyRunes('d'))
	m = updated.(Model)
	if m.confirm != confirmDeleteMeeting {
		t.Fatal("d did not arm the delete confirmation")
	}
	if m.confirmMeetingID != 9 {
		t.Errorf("confirmMeetingID = %d, want the selected meeting's ID 9", m.confirmMeetingID)
	}

	// Declining disarms and leaves the schedule untouched.
	updated, _ = m.Update(keyRunes('n'))
	m = updated.(Model)
	if m.confirm != confirmNone {
		t.Error("confirmation still armed after decline")
	}
	if len(m.meetings) != 2 {
		t.Errorf("meetings = %d after decline, want 2", len(m.meetings))
	}

	// Re-arm and confirm: the delete command fires and the ID resets.
	updated, _ = m.Update(keyRunes('d'))
	m = updated.(Model)
	updated, cmd := m.Update(keyRunes('y'))
	m = updated.(Model)
	if cmd == nil {
		t.Error("confirming did not fire the delete command")
	}
	if m.confirmMeetingID != 0 {
		t.Errorf("confirmMeetingID = %d after confirm, want reset", m.confirmMeetingID)
	}

	// The backend ack triggers a reload.
	updated, cmd = m.Update(meetingDeletedMsg{})
	m = updated.(Model)
	if !m.loadingMeetings {
		t.Error("meeting deletion did not start a schedule reload")
	}
	if cmd == nil {
		t.Error("meeting deletion did not fire a refetch command")
	}
}

func TestNotificationAfterLogoutIsSuppressed(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))
	if !m.notifyWaiting {
		t.Fatal("login did not register a notification reader")
	}

	var cmds []tea.Cmd
	m.forceLogout(&cmds, "Logged out.")
	m.statusIsTemp = false
	m.statusIsError = false

	n := notify.Notification{
		Kind:    notify.KindStartingNow,
		Meeting: api.Meeting{Title: "Standup"},
	}
	updated, cmd := m.Update(notificationMsg(n))
	m = updated.(Model)

	if m.statusIsTemp {
		t.Error("stale notification surfaced as a toast on the landing screen")
	}
	if cmd == nil {
		t.Error("reader not re-queued after a suppressed notification")
	}

	// Logging back in reuses the surviving reader instead of stacking
	// another one.
	m = loggedIn(t, m)
	if !m.notifyWaiting {
		t.Error("notification reader flag lost across a login cycle")
	}
}

func TestSplitMeetings(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	m := newTestModel(t, true)
	m.meetings = []api.Meeting{
		{ID: 1, EndTime: api.Time{Time: now.Add(-time.Hour)}},
		{ID: 2, EndTime: api.Time{Time: now.Add(time.Hour)}},
		{ID: 3, EndTime: api.Time{Time: now}},
	}

	upcoming, past := m.splitMeetings(now)
	if len(upcoming) != 2 || len(past) != 1 {
		t.Fatalf("split = %d upcoming / %d past, want 2/1", len(upcoming), len(past))
	}
	if past[0].ID != 1 {
		t.Errorf("past meeting ID = %d, want 1", past[0].ID)
	}
}

func TestTabCycling(t *testing.T) {
	m := loggedIn(t, newTestModel(t, true))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if m.tab != tabInbox {
		t.Errorf("tab = %v, want inbox after one Tab", m.tab)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	if m.tab != tabOverview {
		t.Errorf("tab = %v, want overview after Shift+Tab back", m.tab)
	}

	updated, _ = m.Update(keyRunes('4'))
	m = updated.(Model)
	if m.tab != tabCalendar {
		t.Errorf("tab = %v, want calendar via the 4 key", m.tab)
	}
}
