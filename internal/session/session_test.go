package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/codetype/internal/model"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testSnippet(code string) model.Snippet {
	return model.Snippet{ID: "go-easy-1", Language: "go", Difficulty: model.DifficultyEasy, Code: code}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from State
		ev   Event
		to   State
		ok   bool
	}{
		{StateIdle, EventKeystroke, StateTyping, true},
		{StateIdle, EventPause, StateIdle, false},
		{StateTyping, EventKeystroke, StateTyping, true},
		{StateTyping, EventComplete, StateCompleted, true},
		{StateTyping, EventPause, StatePaused, true},
		{StatePaused, EventResume, StateTyping, true},
		{StatePaused, EventKeystroke, StateTyping, true},
		{StatePaused, EventComplete, StatePaused, false},
		{StateCompleted, EventKeystroke, StateCompleted, false},
		{StateCompleted, EventReset, StateIdle, true},
		{StatePaused, EventReset, StateIdle, true},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.ev)
		assert.Equal(t, tc.to, got, "%s on %s", tc.ev, tc.from)
		if tc.ok {
			assert.NoError(t, err)
		} else {
			assert.True(t, errors.Is(err, ErrInvalidTransition))
		}
	}
}

func TestFirstKeystrokeStartsClock(t *testing.T) {
	s := New(testSnippet("abc"))
	stats, done := s.Input("", t0)
	assert.False(t, done)
	assert.Equal(t, StateIdle, s.State())
	assert.True(t, stats.StartTime.IsZero())

	stats, done = s.Input("a", t0)
	assert.False(t, done)
	assert.Equal(t, StateTyping, s.State())
	assert.Equal(t, t0, stats.StartTime)
	assert.Zero(t, stats.TimeElapsedMs)
}

func TestCompletionIsTerminal(t *testing.T) {
	s := New(testSnippet("abc"))
	s.Input("a", t0)
	s.Input("ab", t0.Add(30*time.Second))
	stats, done := s.Input("abc", t0.Add(time.Minute))
	require.True(t, done)
	assert.True(t, stats.IsComplete)
	assert.Equal(t, 1, stats.WPM)
	assert.Equal(t, StateCompleted, s.State())

	stats, done = s.Input("abcd", t0.Add(2*time.Minute))
	assert.False(t, done)
	assert.True(t, stats.IsComplete)
	assert.Equal(t, "abc", s.Typed())
	assert.Equal(t, int64(60000), s.Snapshot(t0.Add(5*time.Minute)).TimeElapsedMs)
}

func TestBackspaceCorrectsErrors(t *testing.T) {
	s := New(testSnippet("abc"))
	s.Input("a", t0)
	stats, _ := s.Input("ax", t0.Add(time.Second))
	assert.Equal(t, []int{1}, stats.ErrorPositions)

	stats, _ = s.Input("a", t0.Add(2*time.Second))
	assert.Zero(t, stats.Errors)

	_, done := s.Input("abc", t0.Add(3*time.Second))
	assert.True(t, done)
}

func TestPausedTimeIsExcluded(t *testing.T) {
	s := New(testSnippet("abcdefghij"))
	s.Input("a", t0)
	s.Input("ab", t0.Add(10*time.Second))
	require.NoError(t, s.Pause(t0.Add(20*time.Second)))
	assert.Equal(t, StatePaused, s.State())

	frozen := s.Snapshot(t0.Add(5 * time.Minute))
	assert.Equal(t, int64(20000), frozen.TimeElapsedMs)

	require.NoError(t, s.Resume(t0.Add(80*time.Second)))
	stats, _ := s.Input("abc", t0.Add(90*time.Second))
	assert.Equal(t, int64(30000), stats.TimeElapsedMs)
	assert.Equal(t, t0, stats.StartTime)
}

func TestTypingWhilePausedResumes(t *testing.T) {
	s := New(testSnippet("abcd"))
	s.Input("a", t0)
	require.NoError(t, s.Pause(t0.Add(5*time.Second)))
	stats, _ := s.Input("ab", t0.Add(65*time.Second))
	assert.Equal(t, StateTyping, s.State())
	assert.Equal(t, int64(5000), stats.TimeElapsedMs)
}

func TestPauseRequiresTyping(t *testing.T) {
	s := New(testSnippet("abc"))
	err := s.Pause(t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	err = s.Resume(t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResetClearsEverything(t *testing.T) {
	s := New(testSnippet("abc"))
	s.Input("ax", t0)
	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Typed())
	stats := s.Stats()
	assert.Equal(t, 100, stats.Accuracy)
	assert.Zero(t, stats.Errors)
	assert.True(t, stats.StartTime.IsZero())

	stats, _ = s.Input("a", t0.Add(time.Hour))
	assert.Equal(t, t0.Add(time.Hour), stats.StartTime)
}

func TestSetSnippetResets(t *testing.T) {
	s := New(testSnippet("abc"))
	s.Input("abc", t0)
	require.Equal(t, StateCompleted, s.State())
	s.SetSnippet(testSnippet("xyz"))
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, "xyz", s.Snippet().Code)
}

func TestRecord(t *testing.T) {
	s := New(testSnippet("abc"))
	_, err := s.Record("user-1", t0)
	require.ErrorIs(t, err, ErrInvalidTransition)

	s.Input("a", t0)
	s.Input("abc", t0.Add(time.Minute))
	rec, err := s.Record("user-1", t0.Add(time.Minute))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "go-easy-1", rec.SnippetID)
	assert.Equal(t, "go", rec.Language)
	assert.Equal(t, 100, rec.Accuracy)
	assert.Equal(t, int64(60000), rec.DurationMs)
}

func TestStatsAreCopies(t *testing.T) {
	s := New(testSnippet("abc"))
	s.Input("x", t0)
	stats := s.Stats()
	stats.ErrorPositions[0] = 99
	assert.Equal(t, []int{0}, s.Stats().ErrorPositions)
}
