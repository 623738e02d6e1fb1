package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/store"
)

// Reader is the slice of the store a report needs.
type Reader interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
	Profile(ctx context.Context, userID string) (model.Profile, error)
	AchievementUnlocks(ctx context.Context, userID string) (map[string]time.Time, error)
	Leaderboard(ctx context.Context, q model.LeaderboardQuery) ([]model.LeaderboardEntry, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Profile      model.Profile
	Sessions     []model.SessionRecord
	Summary      UserStats
	Languages    []Breakdown
	Difficulties []Breakdown
	Leaderboard  []model.LeaderboardEntry
	Unlocked     map[string]time.Time
}

// BuildReport loads and prepares data for stats rendering. A missing profile
// yields a fresh level 1 profile.
func BuildReport(ctx context.Context, st Reader, cfg model.StatsConfig, lb model.LeaderboardQuery) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	profile, err := st.Profile(ctx, cfg.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return Report{}, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = model.Profile{ID: cfg.UserID, Username: cfg.UserID, Level: 1}
	}
	unlocked, err := st.AchievementUnlocks(ctx, cfg.UserID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load achievements: %w", err)
	}
	board, err := st.Leaderboard(ctx, lb)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return Report{
		Profile:      profile,
		Sessions:     sessions,
		Summary:      Summarize(sessions),
		Languages:    ByLanguage(sessions),
		Difficulties: ByDifficulty(sessions),
		Leaderboard:  board,
		Unlocked:     unlocked,
	}, nil
}
