package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PlanStatusPill returns a colored indicator for a plan's lifecycle status.
func PlanStatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanDraft, "":
		return StyleBlue.Render("○ Draft")
	case domain.PlanInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.PlanScheduled:
		return StyleGreen.Render("● Scheduled")
	case domain.PlanCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

func TaskStatusPill(status domain.TaskStatus) string {
	if status == domain.TaskCompleted {
		return StyleDim.Render("✔ Done")
	}
	return StyleBlue.Render("○ Pending")
}

func ReservationStatusPill(status domain.ReservationStatus) string {
	switch status {
	case domain.ReservationReserved:
		return StyleBlue.Render("○ Reserved")
	case domain.ReservationOrdered:
		return StyleYellow.Render("◐ Ordered")
	case domain.ReservationIssued:
		return StyleGreen.Render("● Issued")
	default:
		return StyleDim.Render(string(status))
	}
}

// Check renders a pass/fail mark. warn selects the yellow mark for failures
// that do not block.
func Check(ok, warn bool) string {
	switch {
	case ok:
		return StyleGreen.Render("✔")
	case warn:
		return StyleYellow.Render("!")
	default:
		return StyleRed.Render("✖")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
