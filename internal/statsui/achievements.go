package statsui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/achievement"
)

var (
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FD88F")).Bold(true)
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

func renderAchievements(unlocked map[string]time.Time, width int) string {
	all := achievement.All()
	count := 0
	for _, a := range all {
		if _, ok := unlocked[a.ID]; ok {
			count++
		}
	}
	lines := []string{sectionStyle.Render(fmt.Sprintf("Achievements %d/%d", count, len(all))), ""}
	for _, a := range all {
		at, ok := unlocked[a.ID]
		switch {
		case ok:
			lines = append(lines,
				unlockedStyle.Render(truncateLine(fmt.Sprintf("%s %s", a.Icon, a.Name), width)),
				truncateLine(fmt.Sprintf("   %s · unlocked %s", a.Description, at.Local().Format("2006-01-02")), width),
			)
		case !a.Unlockable():
			lines = append(lines,
				lockedStyle.Render(truncateLine(fmt.Sprintf("·  %s", a.Name), width)),
				lockedStyle.Render(truncateLine(fmt.Sprintf("   %s · coming soon", a.Description), width)),
			)
		default:
			lines = append(lines,
				lockedStyle.Render(truncateLine(fmt.Sprintf("·  %s", a.Name), width)),
				lockedStyle.Render(truncateLine("   "+a.Description, width)),
			)
		}
	}
	return strings.Join(lines, "\n")
}
