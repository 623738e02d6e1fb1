// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/safedep/dry/log"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
	"github.com/verte-zerg/codetype/internal/session"
	"github.com/verte-zerg/codetype/internal/snippets"
)

// Options wires the typing screen to its collaborators.
type Options struct {
	Config    model.Config
	Snippets  []model.Snippet
	Picker    *snippets.Picker
	Completer *session.Completer
	Profile   model.Profile
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config    model.Config
	snippets  []model.Snippet
	picker    *snippets.Picker
	completer *session.Completer
	profile   model.Profile
	now       func() time.Time

	width  int
	height int

	session *session.Session
	input   []rune
	live    scorer.Stats

	// attempt increases on every completion and restart; only the result
	// of the current attempt is shown.
	attempt int
	saving  bool
	outcome *session.Outcome
	toasts  []toast
}

// NewModel constructs a typing TUI model on a randomly picked snippet.
func NewModel(opts Options) (*Model, error) {
	if opts.Picker == nil {
		opts.Picker = snippets.NewPicker()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	first, err := opts.Picker.Pick(opts.Snippets, "")
	if err != nil {
		return nil, err
	}
	m := &Model{
		config:    opts.Config,
		snippets:  opts.Snippets,
		picker:    opts.Picker,
		completer: opts.Completer,
		profile:   opts.Profile,
		now:       opts.Now,
		session:   session.New(first),
	}
	m.live = m.session.Stats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := m.now()
		m.live = m.session.Snapshot(now)
		m.expireToasts(now)
		return m, tick()
	case completedMsg:
		// Completions are serialized and XP only grows, so the highest total
		// is the latest profile.
		if msg.outcome.XP >= m.profile.XP {
			m.profile.XP = msg.outcome.XP
			m.profile.Level = msg.outcome.Level
			m.profile.Streak = msg.outcome.Streak
		}
		for _, n := range msg.outcome.Notifications {
			m.pushToast(n)
		}
		if msg.seq != m.attempt {
			return m, nil
		}
		m.saving = false
		m.outcome = &msg.outcome
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlP:
		m.togglePause()
		return m, nil
	case tea.KeyCtrlR:
		m.restart(m.session.Snippet())
		return m, nil
	case tea.KeyCtrlN:
		m.nextSnippet()
		return m, nil
	}

	if m.session.State() == session.StateCompleted {
		if msg.Type == tea.KeyEnter && !m.saving {
			m.nextSnippet()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.input) == 0 {
			return m, nil
		}
		m.input = m.input[:len(m.input)-1]
		return m, m.applyInput()
	case tea.KeySpace:
		m.appendRunes([]rune{' '})
	case tea.KeyTab:
		m.appendRunes([]rune(strings.Repeat(" ", m.tabWidth())))
	case tea.KeyEnter:
		m.appendRunes([]rune{'\n'})
		if m.config.AutoIndent {
			m.appendRunes(m.indentAt(len(m.input)))
		}
	case tea.KeyRunes:
		m.appendRunes(msg.Runes)
	default:
		return m, nil
	}
	return m, m.applyInput()
}

func (m *Model) tabWidth() int {
	if m.config.TabWidth > 0 {
		return m.config.TabWidth
	}
	return snippets.DefaultTabWidth
}

// indentAt returns the run of spaces the target has at pos.
func (m *Model) indentAt(pos int) []rune {
	target := []rune(m.session.Snippet().Code)
	var indent []rune
	for i := pos; i < len(target) && target[i] == ' '; i++ {
		indent = append(indent, ' ')
	}
	return indent
}

func (m *Model) appendRunes(runes []rune) {
	limit := len([]rune(m.session.Snippet().Code)) + maxOverflow
	for _, r := range runes {
		if len(m.input) >= limit {
			return
		}
		m.input = append(m.input, r)
	}
}

// applyInput feeds the current input to the session and starts the
// completion side effects when it finished the snippet.
func (m *Model) applyInput() tea.Cmd {
	now := m.now()
	stats, done := m.session.Input(string(m.input), now)
	m.live = stats
	if !done {
		return nil
	}
	rec, err := m.session.Record(m.config.UserID, now)
	if err != nil {
		log.Errorf("failed to build session record: %v", err)
		return nil
	}
	if m.completer == nil {
		return nil
	}
	m.attempt++
	m.saving = true
	m.outcome = nil
	seq := m.attempt
	completer := m.completer
	userID := m.config.UserID
	return func() tea.Msg {
		return completedMsg{seq: seq, outcome: completer.Complete(context.Background(), userID, rec, stats)}
	}
}

func (m *Model) togglePause() {
	now := m.now()
	switch m.session.State() {
	case session.StateTyping:
		if err := m.session.Pause(now); err != nil {
			log.Debugf("pause ignored: %v", err)
		}
	case session.StatePaused:
		if err := m.session.Resume(now); err != nil {
			log.Debugf("resume ignored: %v", err)
		}
	}
	m.live = m.session.Snapshot(now)
}

func (m *Model) restart(snippet model.Snippet) {
	m.session.SetSnippet(snippet)
	m.input = nil
	m.live = m.session.Stats()
	m.attempt++
	m.saving = false
	m.outcome = nil
}

func (m *Model) nextSnippet() {
	next, err := m.picker.Pick(m.snippets, m.session.Snippet().ID)
	if err != nil {
		log.Warnf("failed to pick snippet: %v", err)
		return
	}
	m.restart(next)
}

func (m *Model) pushToast(n session.Notification) {
	m.toasts = append(m.toasts, toast{note: n, expiresAt: m.now().Add(toastDuration)})
}

func (m *Model) expireToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expiresAt) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}
