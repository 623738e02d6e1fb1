package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

func sessions(wpms ...int) []model.SessionRecord {
	out := make([]model.SessionRecord, len(wpms))
	for i, w := range wpms {
		out[i] = model.SessionRecord{
			ID:          string(rune('a' + i)),
			Language:    "go",
			Difficulty:  model.DifficultyEasy,
			WPM:         w,
			Accuracy:    90,
			DurationMs:  1500,
			CompletedAt: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestSummarize(t *testing.T) {
	recs := sessions(10, 50, 20, 30, 40, 60)
	recs[0].Accuracy = 95
	recs[1].Accuracy = 96
	recs[2].Accuracy = 100
	s := Summarize(recs)
	if s.TotalSessions != 6 || s.BestWPM != 60 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	// (95+96+100+90+90+90)/6 = 93.5
	if s.AvgAccuracy != 93.5 {
		t.Fatalf("unexpected accuracy: %v", s.AvgAccuracy)
	}
	if s.TotalTimeSec != 9 {
		t.Fatalf("unexpected total time: %d", s.TotalTimeSec)
	}
	if len(s.Recent) != 5 || s.Recent[0].WPM != 60 || s.Recent[4].WPM != 50 {
		t.Fatalf("unexpected recent: %+v", s.Recent)
	}
}

func TestSummarizeRoundsToTwoDecimals(t *testing.T) {
	recs := sessions(1, 1, 1)
	recs[0].Accuracy = 100
	recs[1].Accuracy = 100
	recs[2].Accuracy = 99
	if got := Summarize(recs).AvgAccuracy; got != 99.67 {
		t.Fatalf("expected 99.67, got %v", got)
	}
	if got := Summarize(nil); got.TotalSessions != 0 || got.Recent != nil {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestByDifficultyOrdersByLevel(t *testing.T) {
	recs := sessions(10, 20, 30, 40)
	recs[0].Difficulty = model.DifficultyHard
	recs[1].Difficulty = model.DifficultyEasy
	recs[2].Difficulty = model.DifficultyMedium
	recs[3].Difficulty = model.DifficultyHard
	got := ByDifficulty(recs)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(got))
	}
	if got[0].Key != "easy" || got[1].Key != "medium" || got[2].Key != "hard" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[2].Sessions != 2 || got[2].BestWPM != 40 || got[2].AvgWPM != 25 {
		t.Fatalf("unexpected hard group: %+v", got[2])
	}
}

func TestByLanguage(t *testing.T) {
	recs := sessions(10, 20, 30)
	recs[1].Language = "csharp"
	got := ByLanguage(recs)
	if len(got) != 2 || got[0].Key != "csharp" || got[1].Key != "go" || got[1].Sessions != 2 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got := MovingAverage([]float64{1, 5}, 0); got[1] != 5 {
		t.Fatalf("window 0 should copy, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 2, 3}, 0); got != "▁▅█" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5}, 0); got != "▅▅" {
		t.Fatalf("flat sparkline %q", got)
	}
	if got := []rune(Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 4)); len(got) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(got))
	}
	if Sparkline(nil, 10) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestTimeframe(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	tf, err := ParseTimeframe("Week")
	if err != nil || tf != TimeframeWeek {
		t.Fatalf("parse week: %v %v", tf, err)
	}
	if since := tf.Since(now); since == nil || !since.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("unexpected since %v", since)
	}
	if TimeframeAll.Since(now) != nil {
		t.Fatalf("all should have no bound")
	}
	if TimeframeMonth.Next() != TimeframeAll || TimeframeAll.Next() != TimeframeWeek {
		t.Fatalf("unexpected cycle")
	}
	if _, err := ParseTimeframe("year"); err == nil {
		t.Fatalf("expected error for unknown timeframe")
	}
}

func TestRenderLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.LeaderboardEntry{
		{Username: "ada", Level: 3, WPM: 88, Accuracy: 99, Language: "go", Difficulty: "hard", CompletedAt: time.Now()},
		{Username: "grace", Level: 1, WPM: 9, Accuracy: 70, Language: "python", Difficulty: "easy", CompletedAt: time.Now()},
	}
	if err := RenderLeaderboard(&buf, entries); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "1 ada") || !strings.Contains(lines[2], "grace") {
		t.Fatalf("unexpected rows: %q", lines)
	}
	buf.Reset()
	if err := RenderLeaderboard(&buf, nil); err != nil || !strings.Contains(buf.String(), "No sessions") {
		t.Fatalf("unexpected empty render: %q %v", buf.String(), err)
	}
}

func TestRenderSummaryAndCurves(t *testing.T) {
	var buf bytes.Buffer
	recs := sessions(10, 20, 30)
	if err := RenderSummary(&buf, Summarize(recs)); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if err := RenderCurves(&buf, recs, 2, 40); err != nil {
		t.Fatalf("curves: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 3", "Best WPM: 30", "Learning Curves", "Recent Sessions"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{0: "0s", 42: "42s", 125: "2m05s", 3723: "1h02m03s"}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("%d: expected %q, got %q", in, want, got)
		}
	}
}
