package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
)

// Session tracks one attempt at typing a snippet. It has a single writer;
// the stats it hands out are copies.
type Session struct {
	snippet model.Snippet
	state   State
	typed   string

	startedAt time.Time
	pausedAt  time.Time
	pausedFor time.Duration

	stats scorer.Stats
}

// New creates an idle session for snippet.
func New(snippet model.Snippet) *Session {
	s := &Session{}
	s.SetSnippet(snippet)
	return s
}

// SetSnippet assigns a new target and returns the session to idle.
func (s *Session) SetSnippet(snippet model.Snippet) {
	s.snippet = snippet
	s.Reset()
}

// Reset clears all progress. The next keystroke starts a fresh clock.
func (s *Session) Reset() {
	s.state, _ = Transition(s.state, EventReset)
	s.typed = ""
	s.startedAt = time.Time{}
	s.pausedAt = time.Time{}
	s.pausedFor = 0
	s.stats = scorer.Empty()
}

// Snippet returns the current target snippet.
func (s *Session) Snippet() model.Snippet {
	return s.snippet
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Typed returns the input received so far.
func (s *Session) Typed() string {
	return s.typed
}

// Stats returns the snapshot computed by the last input event.
func (s *Session) Stats() scorer.Stats {
	return copyStats(s.stats)
}

// Input records the full text typed so far and recomputes the stats. The
// second result is true when this input completed the session. Input after
// completion is ignored.
func (s *Session) Input(typed string, now time.Time) (scorer.Stats, bool) {
	switch s.state {
	case StateCompleted:
		return s.Stats(), false
	case StateIdle:
		if typed == "" {
			return s.Stats(), false
		}
		s.startedAt = now
	case StatePaused:
		s.pausedFor += now.Sub(s.pausedAt)
		s.pausedAt = time.Time{}
	}
	s.state, _ = Transition(s.state, EventKeystroke)
	s.typed = typed
	s.stats = s.recompute(now)

	if s.stats.IsComplete {
		s.state, _ = Transition(s.state, EventComplete)
		return s.Stats(), true
	}
	return s.Stats(), false
}

// Pause stops the clock. Only a typing session can be paused.
func (s *Session) Pause(now time.Time) error {
	next, err := Transition(s.state, EventPause)
	if err != nil {
		return err
	}
	s.state = next
	s.pausedAt = now
	return nil
}

// Resume restarts the clock after a pause.
func (s *Session) Resume(now time.Time) error {
	next, err := Transition(s.state, EventResume)
	if err != nil {
		return err
	}
	s.state = next
	s.pausedFor += now.Sub(s.pausedAt)
	s.pausedAt = time.Time{}
	return nil
}

// Snapshot recomputes the stats for display at now without recording an
// input event. Completed and idle sessions return their last snapshot and a
// paused session keeps its clock frozen.
func (s *Session) Snapshot(now time.Time) scorer.Stats {
	switch s.state {
	case StateTyping:
		return copyStats(s.recompute(now))
	case StatePaused:
		return copyStats(s.recompute(s.pausedAt))
	default:
		return s.Stats()
	}
}

// Record builds the completion record for a finished session.
func (s *Session) Record(userID string, now time.Time) (model.SessionRecord, error) {
	if s.state != StateCompleted {
		return model.SessionRecord{}, fmt.Errorf("%w: record requested in state %s", ErrInvalidTransition, s.state)
	}
	stats := s.stats
	return model.SessionRecord{
		ID:             uuid.NewString(),
		UserID:         userID,
		SnippetID:      s.snippet.ID,
		Language:       s.snippet.Language,
		Difficulty:     s.snippet.Difficulty,
		WPM:            stats.WPM,
		RawWPM:         stats.RawWPM,
		Accuracy:       stats.Accuracy,
		Errors:         stats.Errors,
		ErrorPositions: append([]int(nil), stats.ErrorPositions...),
		DurationMs:     stats.TimeElapsedMs,
		CompletedAt:    now,
	}, nil
}

// recompute runs the scorer with the start shifted by the paused time so
// paused intervals never count as typing time.
func (s *Session) recompute(now time.Time) scorer.Stats {
	start := s.startedAt
	if !start.IsZero() {
		start = start.Add(s.pausedFor)
	}
	stats := scorer.Recompute(s.snippet.Code, s.typed, start, now)
	stats.StartTime = s.startedAt
	return stats
}

func copyStats(stats scorer.Stats) scorer.Stats {
	stats.ErrorPositions = append([]int{}, stats.ErrorPositions...)
	return stats
}
