package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
	"github.com/verte-zerg/codetype/internal/store"
)

var profileSetup bool

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the profile or set it up",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().BoolVar(&profileSetup, "setup", false, "choose username and practice defaults interactively")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyUserConfig(cmd, fileCfg)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if profileSetup {
		if err := runProfileSetup(&fileCfg); err != nil {
			return err
		}
		if err := config.SaveConfig(path, fileCfg); err != nil {
			return err
		}
		if _, err := st.EnsureProfile(ctx, globalUser, fileCfg.Username()); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		logErrf("Saved %s\n", path)
	}

	profile, err := st.Profile(ctx, globalUser)
	if errors.Is(err, store.ErrNotFound) {
		logErrln("No profile yet. Finish a session or run: codetype profile --setup")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	into, needed := scorer.LevelProgress(profile.XP)
	lines := []string{
		fmt.Sprintf("Player:  %s (%s)", profile.Username, profile.ID),
		fmt.Sprintf("Level:   %d (%d/%d XP to next)", profile.Level, into, needed),
		fmt.Sprintf("XP:      %d", profile.XP),
		fmt.Sprintf("Streak:  %d", profile.Streak),
	}
	if !profile.LastActive.IsZero() {
		lines = append(lines, "Active:  "+profile.LastActive.Local().Format("2006-01-02 15:04"))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// runProfileSetup asks for the username and practice defaults and stores the
// answers in cfg.
func runProfileSetup(cfg *config.FileConfig) error {
	username := cfg.Username()
	lang := ""
	if cfg.Practice.Lang != nil {
		lang = *cfg.Practice.Lang
	}
	difficulty := ""
	if cfg.Practice.Difficulty != nil {
		difficulty = *cfg.Practice.Difficulty
	}
	autoIndent := defaultAutoIndent
	if cfg.Practice.AutoIndent != nil {
		autoIndent = *cfg.Practice.AutoIndent
	}

	difficultyOptions := []huh.Option[string]{huh.NewOption("any", "")}
	for _, d := range model.Difficulties {
		difficultyOptions = append(difficultyOptions, huh.NewOption(d, d))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("username must not be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Default language").
				Description("Leave empty to practice every language").
				Value(&lang),
			huh.NewSelect[string]().
				Title("Default difficulty").
				Options(difficultyOptions...).
				Value(&difficulty),
			huh.NewConfirm().
				Title("Auto-indent after enter?").
				Value(&autoIndent),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("profile setup cancelled: %w", err)
	}

	username = strings.TrimSpace(username)
	lang = strings.ToLower(strings.TrimSpace(lang))
	cfg.Profile.Username = &username
	cfg.Practice.Lang = nil
	if lang != "" {
		cfg.Practice.Lang = &lang
	}
	cfg.Practice.Difficulty = nil
	if difficulty != "" {
		cfg.Practice.Difficulty = &difficulty
	}
	cfg.Practice.AutoIndent = &autoIndent
	return nil
}
