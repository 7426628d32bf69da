package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/braynkanth/assistant-tui/api"
)

// truncate shortens a string to a max length, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatEmailDate formats the received time for display in the list.
func formatEmailDate(t time.Time) string {
	if t.IsZero() {
		return "???"
	}
	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Local().Format("15:04") // Time only for today
	}
	return t.Local().Format("Jan02")
}

func formatMeetingRange(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Local().Format("15:04"), end.Local().Format("15:04"))
}

// formatEmailListItem renders a boxed 4-line entry for the inbox list.
func formatEmailListItem(email api.Email, isSelected bool, itemContentTextWidth int) string {
	var boxCharStyle, subjectStyle, secondaryTextStyle = NormalBoxCharStyle, NormalSubjectStyle, NormalSecondaryTextStyle
	itemBlockStyle := EmailListItemStyle
	if isSelected {
		boxCharStyle, subjectStyle, secondaryTextStyle = SelectedBoxCharStyle, SelectedSubjectStyle, SelectedSecondaryTextStyle
		itemBlockStyle = SelectedEmailListItemStyle
	}

	subject := email.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	paddedSubject := fmt.Sprintf("%-*s", itemContentTextWidth, truncate(subject, itemContentTextWidth))

	var badges []string
	if email.Priority == "P1" {
		badges = append(badges, "URGENT")
	}
	if email.RequiresAction {
		badges = append(badges, "ACTION")
	}
	badgeStr := strings.Join(badges, " ")

	sender := email.Sender
	if sender == "" {
		sender = "(Unknown Sender)"
	}
	dateStr := formatEmailDate(email.ReceivedTime.Time)

	tail := dateStr
	if badgeStr != "" {
		tail = badgeStr + " " + dateStr
	}
	maxSenderLen := itemContentTextWidth - len(tail) - 1
	if maxSenderLen < 1 {
		sender = ""
		tail = truncate(tail, itemContentTextWidth)
	} else {
		sender = truncate(sender, maxSenderLen)
	}

	combined := tail
	if sender != "" {
		combined = sender + " " + tail
	}
	if len(combined) > itemContentTextWidth {
		combined = truncate(combined, itemContentTextWidth)
	}
	paddedCombined := fmt.Sprintf("%-*s", itemContentTextWidth, combined)

	horizontalBar := strings.Repeat(BoxHorizontal, itemContentTextWidth+2)

	line1 := boxCharStyle.Render(BoxTopLeft) + boxCharStyle.Render(horizontalBar) + boxCharStyle.Render(BoxTopRight)
	line2 := fmt.Sprintf("%s %s %s",
		boxCharStyle.Render(BoxVertical),
		subjectStyle.Render(paddedSubject),
		boxCharStyle.Render(BoxVertical),
	)
	line3 := fmt.Sprintf("%s %s %s",
		boxCharStyle.Render(BoxVertical),
		secondaryTextStyle.Render(paddedCombined),
		boxCharStyle.Render(BoxVertical),
	)
	line4 := boxCharStyle.Render(BoxBottomLeft) + boxCharStyle.Render(horizontalBar) + boxCharStyle.Render(BoxBottomRight)

	return itemBlockStyle.Render(strings.Join([]string{line1, line2, line3, line4}, "\n"))
}

// countBy aggregates emails into label -> count using the given key
// function. Empty keys are bucketed as "Unknown".
func countBy(emails []api.Email, key func(api.Email) string) map[string]int {
	counts := make(map[string]int)
	for _, e := range emails {
		k := key(e)
		if k == "" {
			k = "Unknown"
		}
		counts[k]++
	}
	return counts
}

// renderBarChart draws a horizontal text bar chart, labels sorted so
// the output is stable.
func renderBarChart(counts map[string]int, maxBarWidth int) string {
	if len(counts) == 0 {
		return "No data available. Sync your email!"
	}

	labels := make([]string, 0, len(counts))
	maxCount := 0
	labelWidth := 0
	for label, n := range counts {
		labels = append(labels, label)
		if n > maxCount {
			maxCount = n
		}
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if labelWidth > 20 {
		labelWidth = 20
	}

	var b strings.Builder
	for i, label := range labels {
		if i > 0 {
			b.WriteString("\n")
		}
		n := counts[label]
		barLen := 1
		if maxCount > 0 {
			barLen = n * maxBarWidth / maxCount
			if barLen < 1 {
				barLen = 1
			}
		}
		b.WriteString(fmt.Sprintf("%s %s %d",
			BarLabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, truncate(label, labelWidth))),
			BarStyle.Render(strings.Repeat("█", barLen)),
			n,
		))
	}
	return b.String()
}
