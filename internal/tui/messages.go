package tui

import (
	"time"

	"github.com/verte-zerg/codetype/internal/session"
)

const (
	tickInterval  = 100 * time.Millisecond
	toastDuration = 4 * time.Second
	// maxOverflow caps how far input may run past the end of the snippet.
	maxOverflow = 10
)

type tickMsg time.Time

// completedMsg carries the result of the completion side effects. seq
// identifies the attempt that produced it.
type completedMsg struct {
	seq     int
	outcome session.Outcome
}

type toast struct {
	note      session.Notification
	expiresAt time.Time
}
