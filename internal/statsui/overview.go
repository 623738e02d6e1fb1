package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/scorer"
	"github.com/verte-zerg/codetype/internal/stats"
)

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	sectionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

const xpBarMaxWidth = 40

func renderOverview(r stats.Report, window, width int) string {
	parts := []string{renderProfileCard(r, width)}
	if r.Summary.TotalSessions == 0 {
		parts = append(parts, "No sessions found.")
		return strings.Join(parts, "\n\n")
	}
	parts = append(parts, renderSummaryCards(r.Summary, width))
	parts = append(parts, renderCurves(r, window, width))
	parts = append(parts, renderBreakdowns(r))
	parts = append(parts, renderRecent(r.Summary))
	return strings.TrimRight(strings.Join(parts, "\n\n"), "\n")
}

func renderProfileCard(r stats.Report, width int) string {
	p := r.Profile
	level := p.Level
	if level < 1 {
		level = scorer.Level(p.XP)
	}
	into, needed := scorer.LevelProgress(p.XP)
	pct := 0.0
	if needed > 0 {
		pct = float64(into) / float64(needed)
	}
	bar := progress.New(
		progress.WithSolidFill("#C89A3A"),
		progress.WithWidth(min(xpBarMaxWidth, max(10, width-12))),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = "#4A4A4A"

	lines := []string{
		cardValueStyle.Render(fmt.Sprintf("%s  ·  Level %d", p.Username, level)),
		bar.ViewAs(pct),
		cardTitleStyle.Render(fmt.Sprintf("%d/%d XP to level %d  ·  %d XP total  ·  streak %d", into, needed, level+1, p.XP, p.Streak)),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderSummaryCards(s stats.UserStats, width int) string {
	cards := []string{
		metricCard("Sessions", strconv.Itoa(s.TotalSessions)),
		metricCard("Best WPM", strconv.Itoa(s.BestWPM)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AvgWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy)),
		metricCard("Time", stats.FormatDuration(s.TotalTimeSec)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(r stats.Report, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, r.Sessions, window, width); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return styleTitle(strings.TrimRight(buf.String(), "\n"))
}

func renderBreakdowns(r stats.Report) string {
	var buf bytes.Buffer
	if err := stats.RenderBreakdown(&buf, "By Language", r.Languages); err != nil {
		return fmt.Sprintf("Failed to render breakdown: %v", err)
	}
	if err := stats.RenderBreakdown(&buf, "By Difficulty", r.Difficulties); err != nil {
		return fmt.Sprintf("Failed to render breakdown: %v", err)
	}
	blocks := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n\n")
	for i, b := range blocks {
		blocks[i] = styleTitle(b)
	}
	return strings.Join(blocks, "\n\n")
}

func renderRecent(s stats.UserStats) string {
	rows := make([][]string, 0, len(s.Recent))
	for _, r := range s.Recent {
		rows = append(rows, []string{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			r.Language,
			r.Difficulty,
			strconv.Itoa(r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
		})
	}
	lines := stats.FormatTable([]string{"When", "Lang", "Level", "WPM", "Acc"}, rows, map[int]bool{3: true, 4: true})
	return sectionStyle.Render("Recent Sessions") + "\n" + strings.Join(lines, "\n")
}

// styleTitle highlights the first line of a rendered block.
func styleTitle(block string) string {
	title, rest, found := strings.Cut(block, "\n")
	if !found {
		return sectionStyle.Render(title)
	}
	return sectionStyle.Render(title) + "\n" + rest
}
