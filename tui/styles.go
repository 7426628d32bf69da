package tui

import "github.com/charmbracelet/lipgloss"

var (
	// General
	AppStyle = lipgloss.NewStyle().Padding(0, 0)

	TitleStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)

	// Tab bar
	TabActiveStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 2)
	TabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 2)

	// Filter chips
	ChipActiveStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("255")).Foreground(lipgloss.Color("235")).Padding(0, 1)
	ChipInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)

	// Email list
	EmailListItemStyle         = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	SelectedEmailListItemStyle = EmailListItemStyle

	NormalBoxCharStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "238"})
	NormalSubjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
	NormalSecondaryTextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"})

	SelectedBoxCharStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	SelectedSubjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	SelectedSecondaryTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("189"))

	// Badges
	UrgentBadgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	ActionBadgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
	IntentTagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	PositiveTagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	NegativeTagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	NeutralTagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	InsightStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Italic(true)
	SuggestedReplyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Italic(true)

	// Content boxes
	ContentBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	HeaderKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	HeaderValStyle  = lipgloss.NewStyle()
	BodyStyle       = lipgloss.NewStyle().MarginTop(1)

	// Chat
	ChatUserStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("63")).Padding(0, 1)
	ChatAgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")).Padding(0, 1)
	ChatSystemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Italic(true)

	// Calendar
	MeetingDateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginTop(1)
	MeetingPastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Charts
	BarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	BarLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	// Compose modal
	ModalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("63")).Padding(1, 2)
	LabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))

	// Status bar
	StatusBarSuccessStyle = lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	StatusBarNormalStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")).Padding(0, 1)
	StatusBarErrorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("196")).Foreground(lipgloss.Color("255")).Padding(0, 1)
)

// Box drawing characters
const (
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
)
