package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	dateLayout = "2006-01-02"
	// stampLayout is used for task start and end instants.
	stampLayout = "Mon 01-02 15:04"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanTimestamp renders t relative to now, e.g. "3 days ago".
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

func HumanTimestampFrom(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatHours renders a duration in hours as "2h", "1h 30m" or "15m".
func FormatHours(h float64) string {
	minutes := int(h*60 + 0.5)
	if minutes <= 0 {
		return "0m"
	}
	hh, mm := minutes/60, minutes%60
	switch {
	case hh > 0 && mm > 0:
		return fmt.Sprintf("%dh %dm", hh, mm)
	case hh > 0:
		return fmt.Sprintf("%dh", hh)
	default:
		return fmt.Sprintf("%dm", mm)
	}
}

// FormatQty renders a quantity with thousands separators and no trailing
// zeros, followed by its unit when one is given.
func FormatQty(qty float64, uom string) string {
	s := humanize.CommafWithDigits(qty, 3)
	if uom == "" {
		return s
	}
	return s + " " + uom
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func FormatStamp(t time.Time) string {
	return t.Format(stampLayout)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
