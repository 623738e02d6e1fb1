package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/scorer"
	"github.com/verte-zerg/codetype/internal/session"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Background(lipgloss.Color("#3A1214"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	codeBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3C3C3C")).Padding(0, 1)
	cardStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#52C41A")).Padding(1, 3)
	toastStyles      = map[session.NotificationKind]lipgloss.Style{
		session.NotifyAchievement: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		session.NotifyLevelUp:     lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		session.NotifyError:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{m.renderHeader()}
	if m.config.ShowLiveStats {
		sections = append(sections, m.renderLiveStats())
	}
	if m.session.State() == session.StateCompleted && m.outcome != nil {
		sections = append(sections, m.renderResult())
	} else {
		sections = append(sections, m.renderCode())
	}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderHeader() string {
	sn := m.session.Snippet()
	title := sn.Title
	if title == "" {
		title = sn.ID
	}
	meta := labelStyle.Render(fmt.Sprintf("%s · %s", sn.Language, sn.Difficulty))
	status := ""
	switch m.session.State() {
	case session.StatePaused:
		status = incorrectStyle.Render("  PAUSED")
	case session.StateCompleted:
		status = correctStyle.Render("  DONE")
	}
	return titleStyle.Render(title) + "  " + meta + status
}

func (m *Model) renderLiveStats() string {
	s := m.live
	return strings.Join([]string{
		stat("WPM", fmt.Sprintf("%d", s.WPM)),
		stat("Raw", fmt.Sprintf("%d", s.RawWPM)),
		stat("Acc", fmt.Sprintf("%d%%", s.Accuracy)),
		stat("Errors", fmt.Sprintf("%d", s.Errors)),
		stat("Time", formatElapsed(s.TimeElapsedMs)),
		stat("Progress", fmt.Sprintf("%d%%", m.progress())),
	}, "  ")
}

func stat(label, value string) string {
	return labelStyle.Render(label+" ") + valueStyle.Render(value)
}

func (m *Model) progress() int {
	total := len([]rune(m.session.Snippet().Code))
	if total == 0 {
		return 0
	}
	return min(len(m.input)*100/total, 100)
}

func (m *Model) renderCode() string {
	target := []rune(m.session.Snippet().Code)
	cursorIndex := -1
	if len(m.input) < len(target) {
		cursorIndex = len(m.input)
	}
	styled := buildStyledRunes(target, m.input, cursorIndex)
	width := m.contentWidth()
	if width == 0 {
		return codeBoxStyle.Render(renderStyledRunes(styled))
	}
	inner := max(width-codeBoxStyle.GetHorizontalFrameSize(), 1)
	box := codeBoxStyle.Width(width - codeBoxStyle.GetHorizontalBorderSize())
	return box.Render(wrapStyledRunes(styled, inner))
}

func (m *Model) renderResult() string {
	o := m.outcome
	s := m.live
	lines := []string{
		titleStyle.Render("Challenge complete!"),
		"",
		stat("WPM", fmt.Sprintf("%d", s.WPM)) + "   " + stat("Raw", fmt.Sprintf("%d", s.RawWPM)),
		stat("Accuracy", fmt.Sprintf("%d%%", s.Accuracy)) + "   " + stat("Errors", fmt.Sprintf("%d", s.Errors)),
		stat("Time", formatElapsed(s.TimeElapsedMs)),
		"",
		stat("XP", fmt.Sprintf("+%d (%d total)", o.XPGained, o.XP)),
		stat("Level", fmt.Sprintf("%d", o.Level)) + "   " + stat("Streak", fmt.Sprintf("%d day(s)", o.Streak)),
	}
	into, needed := scorer.LevelProgress(o.XP)
	lines = append(lines, labelStyle.Render(fmt.Sprintf("%d/%d XP to level %d", into, needed, o.Level+1)))
	for _, a := range o.Achievements {
		lines = append(lines, toastStyles[session.NotifyAchievement].Render(a.Icon+" "+a.Name))
	}
	if !o.Saved {
		lines = append(lines, incorrectStyle.Render("Session was not saved."))
	}
	lines = append(lines, "", footerStyle.Render("enter next · ctrl+r retry · esc quit"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, toastStyles[t.note.Kind].Render(t.note.Message))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Lvl %d · %d XP", m.profile.Level, m.profile.XP)}
	if m.profile.Streak > 0 {
		segments = append(segments, fmt.Sprintf("Streak %d", m.profile.Streak))
	}
	if m.saving {
		segments = append(segments, "Saving…")
	}
	segments = append(segments, "ctrl+p pause", "ctrl+r reset", "ctrl+n new", "esc quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatElapsed(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
