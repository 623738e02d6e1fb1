// Package main provides the CLI entrypoint for codetype.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/safedep/dry/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
	"github.com/verte-zerg/codetype/internal/snippets"
	"github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/store"
	"github.com/verte-zerg/codetype/internal/tui"
)

const (
	defaultCurveWindow = 10
	defaultAutoIndent  = true
	defaultLiveStats   = true
)

var (
	globalUser string

	practiceLang       string
	practiceDifficulty string
	practiceSeed       int64
	practiceAutoIndent bool
	practiceTabWidth   int
	practiceLiveStats  bool
)

func main() {
	setupInternalLogger()
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupInternalLogger keeps diagnostics off stdout so they never paint over
// the TUI.
func setupInternalLogger() {
	_ = os.Setenv("APP_LOG_SKIP_STDOUT_LOGGER", "true")
	log.Init("codetype", "cli")
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "codetype",
		Short:         "Code typing practice in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&globalUser, "user", config.DefaultUserID, "profile id")

	rootCmd.Flags().StringVar(&practiceLang, "lang", "", "snippet language (default: any)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", "", "easy, medium or hard (default: any)")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "seed for snippet selection (0: random)")
	rootCmd.Flags().BoolVar(&practiceAutoIndent, "auto-indent", defaultAutoIndent, "copy indentation after enter")
	rootCmd.Flags().IntVar(&practiceTabWidth, "tab-width", snippets.DefaultTabWidth, "spaces inserted for tab")
	rootCmd.Flags().BoolVar(&practiceLiveStats, "live-stats", defaultLiveStats, "show WPM and accuracy while typing")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPruneCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyUserConfig(cmd, fileCfg)
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyBoolConfig(cmd, "auto-indent", &practiceAutoIndent, fileCfg.Practice.AutoIndent)
	applyIntConfig(cmd, "tab-width", &practiceTabWidth, fileCfg.Practice.TabWidth)
	applyBoolConfig(cmd, "live-stats", &practiceLiveStats, fileCfg.Practice.LiveStats)

	cfg := model.Config{
		Language:      strings.ToLower(strings.TrimSpace(practiceLang)),
		Difficulty:    strings.ToLower(strings.TrimSpace(practiceDifficulty)),
		UserID:        globalUser,
		Username:      fileCfg.Username(),
		ShowLiveStats: practiceLiveStats,
		AutoIndent:    practiceAutoIndent,
		TabWidth:      practiceTabWidth,
		Seed:          practiceSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	source, closeSource, err := openSource(ctx, fileCfg, cfg.TabWidth)
	if err != nil {
		return err
	}
	defer closeSource()

	pool, err := source.ListSnippets(ctx, cfg.Language, cfg.Difficulty)
	if err != nil {
		if errors.Is(err, snippets.ErrNoSnippets) {
			return fmt.Errorf("%w\nRun: codetype langs", err)
		}
		return fmt.Errorf("failed to load snippets: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	profile, err := st.EnsureProfile(ctx, cfg.UserID, cfg.Username)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	picker := snippets.NewPicker()
	if cfg.Seed != 0 {
		picker = snippets.NewSeededPicker(cfg.Seed)
	}
	m, err := tui.NewModel(tui.Options{
		Config:    cfg,
		Snippets:  pool,
		Picker:    picker,
		Completer: &session.Completer{Store: st, Notifier: session.LogNotifier{}},
		Profile:   profile,
	})
	if err != nil {
		return err
	}
	log.Infof("starting practice: user=%s lang=%q difficulty=%q snippets=%d", cfg.UserID, cfg.Language, cfg.Difficulty, len(pool))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openSource picks the remote catalog when a MongoDB URI is configured and
// the embedded plus user catalog otherwise. The returned func releases it.
func openSource(ctx context.Context, fileCfg config.FileConfig, tabWidth int) (snippets.Source, func(), error) {
	if uri := fileCfg.MongoURI(); uri != "" {
		src, err := snippets.OpenMongo(ctx, snippets.MongoOptions{
			URI:        uri,
			Database:   fileCfg.MongoDatabase(),
			Collection: fileCfg.MongoCollection(),
			TabWidth:   tabWidth,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open remote catalog: %w", err)
		}
		return src, func() {
			if cerr := src.Close(context.Background()); cerr != nil {
				logErrf("failed to close remote catalog: %v\n", cerr)
			}
		}, nil
	}
	catalog, err := snippets.LoadCatalog(fileCfg.SnippetDir(), tabWidth)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snippet catalog: %w", err)
	}
	return catalog, func() {}, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List snippet languages and counts per difficulty",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	tabWidth := snippets.DefaultTabWidth
	if fileCfg.Practice.TabWidth != nil {
		tabWidth = *fileCfg.Practice.TabWidth
	}
	ctx := context.Background()
	source, closeSource, err := openSource(ctx, fileCfg, tabWidth)
	if err != nil {
		return err
	}
	defer closeSource()

	all, err := source.ListSnippets(ctx, "", "")
	if err != nil {
		if errors.Is(err, snippets.ErrNoSnippets) {
			logErrf("No snippets found. Add TOML files to %s\n", fileCfg.SnippetDir())
		}
		return fmt.Errorf("failed to list snippets: %w", err)
	}
	langs := snippets.Languages(all)
	rows := make([][]string, 0, len(langs))
	for _, l := range langs {
		row := []string{l.Language}
		for _, d := range model.Difficulties {
			row = append(row, strconv.Itoa(l.ByDifficulty[d]))
		}
		rows = append(rows, append(row, strconv.Itoa(l.Total)))
	}
	headers := append(append([]string{"Language"}, model.Difficulties...), "Total")
	for _, line := range stats.FormatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyUserConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	if cmd.Flags().Changed("user") {
		return
	}
	globalUser = fileCfg.UserID()
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# codetype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "go"             # Snippet language (default: any)
# difficulty = "easy"     # easy, medium or hard (default: any)
# auto-indent = %t      # Copy indentation after enter
# tab-width = %d          # Spaces inserted for tab
# live-stats = %t       # Show WPM and accuracy while typing

[catalog]
# dir = %q
# mongo-uri = "mongodb://localhost:27017"
# mongo-database = %q
# mongo-collection = %q

[profile]
# id = %q
# username = "ada"

[stats]
# curve-window = %d       # Moving average window
# retention-days = 365    # Used by prune when --older-than is not set
`,
		defaultAutoIndent,
		snippets.DefaultTabWidth,
		defaultLiveStats,
		config.DefaultSnippetDir(),
		snippets.DefaultMongoDatabase,
		snippets.DefaultMongoCollection,
		config.DefaultUserID,
		defaultCurveWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Difficulty != "" && !snippets.ValidDifficulty(cfg.Difficulty) {
		return fmt.Errorf("--difficulty must be one of %s", strings.Join(model.Difficulties, ", "))
	}
	if cfg.TabWidth < 1 || cfg.TabWidth > 16 {
		return fmt.Errorf("--tab-width must be between 1 and 16")
	}
	if strings.TrimSpace(cfg.UserID) == "" {
		return fmt.Errorf("--user must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
