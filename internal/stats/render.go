package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

// RenderSummary prints the headline numbers and the latest sessions.
func RenderSummary(w io.Writer, s UserStats) error {
	if s.TotalSessions == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.TotalSessions),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		fmt.Sprintf("Time Typed: %s", FormatDuration(s.TotalTimeSec)),
		"",
		"Recent Sessions",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
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
	return writeLines(w, FormatTable([]string{"When", "Lang", "Level", "WPM", "Acc"}, rows, map[int]bool{3: true, 4: true}))
}

// RenderCurves prints smoothed WPM and accuracy sparklines that fit width.
// A width of zero or less prints one column per session.
func RenderCurves(w io.Writer, records []model.SessionRecord, window, width int) error {
	if len(records) == 0 {
		return nil
	}
	wpm, acc := Series(records)
	wpm = MovingAverage(wpm, window)
	acc = MovingAverage(acc, window)
	const label = "Accuracy "
	plotWidth := 0
	if width > 0 {
		plotWidth = max(width-len(label), 10)
	}
	lines := []string{
		"Learning Curves",
		"WPM      " + Sparkline(wpm, plotWidth),
		label + Sparkline(acc, plotWidth),
		fmt.Sprintf("WPM %.0f -> %.0f, accuracy %.0f%% -> %.0f%%", wpm[0], wpm[len(wpm)-1], acc[0], acc[len(acc)-1]),
		"",
	}
	return writeLines(w, lines)
}

// RenderBreakdown prints a per-group table under title.
func RenderBreakdown(w io.Writer, title string, groups []Breakdown) error {
	if len(groups) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			strconv.Itoa(g.Sessions),
			strconv.Itoa(g.BestWPM),
			fmt.Sprintf("%.2f", g.AvgWPM),
			fmt.Sprintf("%.2f%%", g.AvgAccuracy),
		})
	}
	lines := append([]string{title}, FormatTable(
		[]string{"Name", "Sessions", "Best", "Avg WPM", "Avg Acc"},
		rows,
		map[int]bool{1: true, 2: true, 3: true, 4: true},
	)...)
	return writeLines(w, append(lines, ""))
}

// RenderLeaderboard prints ranked entries.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No sessions on the leaderboard yet.")
		return err
	}
	return writeLines(w, FormatTable(leaderboardHeaders, LeaderboardRows(entries), map[int]bool{0: true, 3: true, 4: true}))
}

var leaderboardHeaders = []string{"#", "Player", "Lvl", "WPM", "Acc", "Lang", "Level", "Date"}

// LeaderboardRows formats entries as table cells, ranked from 1.
func LeaderboardRows(entries []model.LeaderboardEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Username,
			strconv.Itoa(e.Level),
			strconv.Itoa(e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
			e.Language,
			e.Difficulty,
			e.CompletedAt.Local().Format("2006-01-02"),
		})
	}
	return rows
}

// FormatDuration renders seconds as 1h02m03s, 2m05s or 42s.
func FormatDuration(sec int64) string {
	d := time.Duration(sec) * time.Second
	h := int64(d / time.Hour)
	m := int64(d % time.Hour / time.Minute)
	s := int64(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
