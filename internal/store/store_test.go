package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
)

var _ session.Persistence = (*Store)(nil)

var base = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "codetype.db"))
	require.NoError(t, err)
	st.now = func() time.Time { return base }
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return st
}

func record(user string, wpm, acc int, at time.Time) model.SessionRecord {
	return model.SessionRecord{
		UserID:      user,
		SnippetID:   "go-easy-1",
		Language:    "go",
		Difficulty:  model.DifficultyEasy,
		WPM:         wpm,
		RawWPM:      wpm + 5,
		Accuracy:    acc,
		DurationMs:  30000,
		CompletedAt: at,
	}
}

func TestProfileLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.Profile(ctx, "u1")
	require.ErrorIs(t, err, ErrNotFound)

	p, err := st.EnsureProfile(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.Username)
	assert.Equal(t, 1, p.Level)
	assert.True(t, p.LastActive.IsZero())
	assert.True(t, p.CreatedAt.Equal(base))

	p, err = st.EnsureProfile(ctx, "u1", "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Username)

	last := base.Add(time.Hour)
	require.NoError(t, st.UpdateProfile(ctx, "u1", model.ProfileUpdate{XP: 150, Level: 2, Streak: 3, LastActive: last}))
	p, err = st.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 150, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 3, p.Streak)
	assert.True(t, p.LastActive.Equal(last))
	assert.Equal(t, "ada", p.Username)
}

func TestUpdateProfileCreatesMissing(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.UpdateProfile(ctx, "ghost", model.ProfileUpdate{XP: 10, Level: 1, Streak: 1, LastActive: base}))
	p, err := st.Profile(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 10, p.XP)
}

func TestSaveAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := record("u1", 40, 95, base)
	first.ErrorPositions = []int{3, 7}
	saved, err := st.SaveSession(ctx, first)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	_, err = st.SaveSession(ctx, record("u1", 60, 99, base.Add(2*time.Hour)))
	require.NoError(t, err)
	py := record("u1", 30, 90, base.Add(time.Hour))
	py.Language = "python"
	_, err = st.SaveSession(ctx, py)
	require.NoError(t, err)
	_, err = st.SaveSession(ctx, record("u2", 80, 100, base))
	require.NoError(t, err)

	history, err := st.SessionHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, saved.ID, history[0].ID)
	assert.Equal(t, []int{3, 7}, history[0].ErrorPositions)
	assert.True(t, history[0].CompletedAt.Equal(base))
	assert.Equal(t, 60, history[2].WPM)

	goOnly, err := st.ListSessions(ctx, model.StatsConfig{UserID: "u1", Language: "go"})
	require.NoError(t, err)
	assert.Len(t, goOnly, 2)

	since := base.Add(30 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	last, err := st.ListSessions(ctx, model.StatsConfig{UserID: "u1", Last: 2})
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "python", last[0].Language)
	assert.Equal(t, 60, last[1].WPM)

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSaveSessionDefaults(t *testing.T) {
	st := openTestStore(t)
	rec, err := st.SaveSession(context.Background(), model.SessionRecord{UserID: "u1", Language: "go", Difficulty: "easy"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.True(t, rec.CompletedAt.Equal(base))
	assert.Equal(t, []int{}, rec.ErrorPositions)

	_, err = st.SaveSession(context.Background(), rec)
	assert.Error(t, err, "duplicate id must fail")
}

func TestAchievements(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	got, err := st.AchievementUnlocks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, st.UnlockAchievement(ctx, "u1", "first_session", base))
	require.NoError(t, st.UnlockAchievement(ctx, "u1", "first_session", base.Add(time.Hour)))
	require.NoError(t, st.UnlockAchievement(ctx, "u2", "speed_demon_50", base))

	got, err = st.AchievementUnlocks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got["first_session"].Equal(base))
}

func TestLeaderboard(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	_, err := st.EnsureProfile(ctx, "u1", "ada")
	require.NoError(t, err)

	for _, rec := range []model.SessionRecord{
		record("u1", 50, 90, base),
		record("u1", 70, 92, base.Add(time.Hour)),
		record("u2", 70, 98, base.Add(-48*time.Hour)),
		record("u2", 20, 80, base),
	} {
		_, err := st.SaveSession(ctx, rec)
		require.NoError(t, err)
	}

	entries, err := st.Leaderboard(ctx, model.LeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "u2", entries[0].Username, "ties broken by accuracy")
	assert.Equal(t, 98, entries[0].Accuracy)
	assert.Equal(t, "ada", entries[1].Username)
	assert.Equal(t, 1, entries[1].Level)
	assert.Equal(t, 20, entries[3].WPM)

	since := base.Add(-time.Hour)
	entries, err = st.Leaderboard(ctx, model.LeaderboardQuery{Since: &since, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 70, entries[0].WPM)
	assert.Equal(t, "ada", entries[0].Username)

	entries, err = st.Leaderboard(ctx, model.LeaderboardQuery{Language: "rust"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteSessionsBefore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, at := range []time.Time{base.Add(-72 * time.Hour), base.Add(-25 * time.Hour), base} {
		_, err := st.SaveSession(ctx, record("u1", 40, 90, at))
		require.NoError(t, err)
	}
	n, err := st.DeleteSessionsBefore(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := st.SessionHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestTimesSortAcrossFractions(t *testing.T) {
	a := formatTime(base)
	b := formatTime(base.Add(500 * time.Millisecond))
	assert.Less(t, a, b)
	parsed, err := parseTime(b)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(base.Add(500*time.Millisecond)))
}
