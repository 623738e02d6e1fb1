// Package session owns the lifecycle of a single typing attempt.
package session

import (
	"errors"
	"fmt"
)

// State is the lifecycle state of a session.
type State string

// Session states.
const (
	StateIdle      State = "idle"
	StateTyping    State = "typing"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Event drives a state transition.
type Event string

// Session events.
const (
	EventKeystroke Event = "keystroke"
	EventComplete  Event = "complete"
	EventPause     Event = "pause"
	EventResume    Event = "resume"
	EventReset     Event = "reset"
)

// ErrInvalidTransition is returned for events a state does not accept.
var ErrInvalidTransition = errors.New("invalid session transition")

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventKeystroke: StateTyping,
	},
	StateTyping: {
		EventKeystroke: StateTyping,
		EventComplete:  StateCompleted,
		EventPause:     StatePaused,
	},
	StatePaused: {
		EventResume:    StateTyping,
		EventKeystroke: StateTyping,
	},
	StateCompleted: {},
}

// Transition returns the state reached from s on e. Reset is accepted from
// every state.
func Transition(s State, e Event) (State, error) {
	if e == EventReset {
		return StateIdle, nil
	}
	next, ok := transitions[s][e]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
	}
	return next, nil
}
