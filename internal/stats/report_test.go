package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "codetype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	if _, err := st.EnsureProfile(ctx, "u1", "ada"); err != nil {
		t.Fatalf("ensure profile: %v", err)
	}
	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := st.SaveSession(ctx, model.SessionRecord{
			UserID:      "u1",
			SnippetID:   "go-easy-1",
			Language:    "go",
			Difficulty:  model.DifficultyEasy,
			WPM:         40 + i*10,
			Accuracy:    90 + i,
			DurationMs:  30000,
			CompletedAt: time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save session: %v", err)
		}
		ids = append(ids, rec.ID)
	}
	if err := st.UnlockAchievement(ctx, "u1", "first_session", time.Unix(0, 0)); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	cfg := model.StatsConfig{UserID: "u1", Language: "go", Last: 2, CurveWindow: 2}
	report, err := BuildReport(ctx, st, cfg, model.LeaderboardQuery{Limit: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].ID != ids[1] || report.Sessions[1].ID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if report.Summary.BestWPM != 60 {
		t.Fatalf("expected best wpm 60, got %d", report.Summary.BestWPM)
	}
	if report.Profile.Username != "ada" {
		t.Fatalf("expected profile ada, got %q", report.Profile.Username)
	}
	if len(report.Leaderboard) != 1 || report.Leaderboard[0].WPM != 60 {
		t.Fatalf("unexpected leaderboard: %+v", report.Leaderboard)
	}
	if _, ok := report.Unlocked["first_session"]; !ok {
		t.Fatalf("expected first_session unlocked")
	}
	if len(report.Languages) != 1 || report.Languages[0].Key != "go" {
		t.Fatalf("unexpected language breakdown: %+v", report.Languages)
	}
}

func TestBuildReportWithoutProfile(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "codetype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	report, err := BuildReport(context.Background(), st, model.StatsConfig{UserID: "nobody"}, model.LeaderboardQuery{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Profile.Level != 1 || report.Summary.TotalSessions != 0 {
		t.Fatalf("unexpected empty report: %+v", report)
	}
}
