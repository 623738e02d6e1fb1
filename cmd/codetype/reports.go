package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/codetype/internal/achievement"
	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/statsui"
	"github.com/verte-zerg/codetype/internal/store"
)

var (
	statsLang        string
	statsDifficulty  string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	boardTimeframe  string
	boardLang       string
	boardDifficulty string
	boardLimit      int

	exportFormat string

	pruneOlderThan int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&boardTimeframe, "timeframe", string(stats.TimeframeAll), "leaderboard timeframe: all, week or month")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyUserConfig(cmd, fileCfg)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be > 0")
	}
	tf, err := stats.ParseTimeframe(boardTimeframe)
	if err != nil {
		return err
	}

	cfg := model.StatsConfig{
		UserID:      globalUser,
		Language:    strings.ToLower(strings.TrimSpace(statsLang)),
		Difficulty:  strings.ToLower(strings.TrimSpace(statsDifficulty)),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain {
		lb := model.LeaderboardQuery{Since: tf.Since(time.Now()), Limit: store.DefaultLeaderboardLimit}
		report, err := stats.BuildReport(context.Background(), st, cfg, lb)
		if err != nil {
			return err
		}
		return writeStatsReport(cmd.OutOrStdout(), report, cfg.CurveWindow, stats.TerminalWidth())
	}

	m := statsui.NewModel(statsui.Options{
		Reader:      st,
		Stats:       cfg,
		Leaderboard: model.LeaderboardQuery{Limit: store.DefaultLeaderboardLimit},
		Timeframe:   tf,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writeStatsReport(w io.Writer, r stats.Report, window, width int) error {
	p := r.Profile
	if _, err := fmt.Fprintf(w, "%s · level %d · %d XP · streak %d\n\n", p.Username, p.Level, p.XP, p.Streak); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSummary(w, r.Summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if r.Summary.TotalSessions == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	steps := []func() error{
		func() error { return stats.RenderCurves(w, r.Sessions, window, width) },
		func() error { return stats.RenderBreakdown(w, "By Language", r.Languages) },
		func() error { return stats.RenderBreakdown(w, "By Difficulty", r.Difficulties) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the fastest sessions",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardTimeframe, "timeframe", string(stats.TimeframeAll), "all, week or month")
	cmd.Flags().StringVar(&boardLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&boardDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().IntVar(&boardLimit, "limit", store.DefaultLeaderboardLimit, "number of entries")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	tf, err := stats.ParseTimeframe(boardTimeframe)
	if err != nil {
		return err
	}
	if boardLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	entries, err := st.Leaderboard(context.Background(), model.LeaderboardQuery{
		Language:   strings.ToLower(strings.TrimSpace(boardLang)),
		Difficulty: strings.ToLower(strings.TrimSpace(boardDifficulty)),
		Since:      tf.Since(time.Now()),
		Limit:      boardLimit,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Leaderboard · %s\n", tf.Label()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.RenderLeaderboard(out, entries)
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and which ones are unlocked",
		Args:  cobra.NoArgs,
		RunE:  runAchievementsCmd,
	}
}

func runAchievementsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyUserConfig(cmd, fileCfg)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	unlocked, err := st.AchievementUnlocks(context.Background(), globalUser)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(achievement.All()))
	for _, a := range achievement.All() {
		status := "locked"
		if at, ok := unlocked[a.ID]; ok {
			status = at.Local().Format("2006-01-02")
		}
		rows = append(rows, []string{a.Icon, a.Name, a.Description, status})
	}
	for _, line := range stats.FormatTable([]string{"", "Name", "Description", "Unlocked"}, rows, nil) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export profile, sessions and achievements",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "json or yaml")
	return cmd
}

type exportProfile struct {
	ID         string    `json:"id" yaml:"id"`
	Username   string    `json:"username" yaml:"username"`
	XP         int       `json:"xp" yaml:"xp"`
	Level      int       `json:"level" yaml:"level"`
	Streak     int       `json:"streak" yaml:"streak"`
	LastActive time.Time `json:"last_active" yaml:"last_active"`
}

type exportAchievement struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	UnlockedAt time.Time `json:"unlocked_at" yaml:"unlocked_at"`
}

type exportDocument struct {
	Profile      exportProfile         `json:"profile" yaml:"profile"`
	Sessions     []model.SessionRecord `json:"sessions" yaml:"sessions"`
	Achievements []exportAchievement   `json:"achievements" yaml:"achievements"`
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if format != "json" && format != "yaml" {
		return fmt.Errorf("--format must be json or yaml")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyUserConfig(cmd, fileCfg)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	doc, err := buildExport(context.Background(), st, globalUser)
	if err != nil {
		return err
	}
	return writeExport(cmd.OutOrStdout(), format, doc)
}

func buildExport(ctx context.Context, st *store.Store, userID string) (exportDocument, error) {
	profile, err := st.Profile(ctx, userID)
	if err != nil {
		return exportDocument{}, fmt.Errorf("failed to load profile %q: %w", userID, err)
	}
	sessions, err := st.ListSessions(ctx, model.StatsConfig{UserID: userID})
	if err != nil {
		return exportDocument{}, err
	}
	unlocked, err := st.AchievementUnlocks(ctx, userID)
	if err != nil {
		return exportDocument{}, err
	}
	doc := exportDocument{
		Profile: exportProfile{
			ID:         profile.ID,
			Username:   profile.Username,
			XP:         profile.XP,
			Level:      profile.Level,
			Streak:     profile.Streak,
			LastActive: profile.LastActive,
		},
		Sessions:     sessions,
		Achievements: []exportAchievement{},
	}
	for _, a := range achievement.All() {
		if at, ok := unlocked[a.ID]; ok {
			doc.Achievements = append(doc.Achievements, exportAchievement{ID: a.ID, Name: a.Name, UnlockedAt: at})
		}
	}
	return doc, nil
}

func writeExport(w io.Writer, format string, doc exportDocument) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete sessions older than a number of days",
		Args:  cobra.NoArgs,
		RunE:  runPruneCmd,
	}
	cmd.Flags().IntVar(&pruneOlderThan, "older-than", 0, "age in days (default: stats.retention-days)")
	return cmd
}

func runPruneCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "older-than", &pruneOlderThan, fileCfg.Stats.RetentionDays)
	if pruneOlderThan <= 0 {
		return fmt.Errorf("--older-than must be > 0 (or set stats.retention-days)")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	cutoff := time.Now().AddDate(0, 0, -pruneOlderThan)
	n, err := st.DeleteSessionsBefore(context.Background(), cutoff)
	if err != nil {
		return err
	}
	logErrf("Deleted %d sessions completed before %s\n", n, cutoff.Format("2006-01-02"))
	return nil
}
