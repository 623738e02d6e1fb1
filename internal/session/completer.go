package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/safedep/dry/log"

	"github.com/verte-zerg/codetype/internal/achievement"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
)

// Persistence stores sessions, achievements and profile progress.
type Persistence interface {
	SaveSession(ctx context.Context, rec model.SessionRecord) (model.SessionRecord, error)
	SessionHistory(ctx context.Context, userID string) ([]model.SessionRecord, error)
	AchievementUnlocks(ctx context.Context, userID string) (map[string]time.Time, error)
	UnlockAchievement(ctx context.Context, userID, achievementID string, at time.Time) error
	Profile(ctx context.Context, userID string) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) error
}

// Outcome summarizes what happened when a session completed.
type Outcome struct {
	Record        model.SessionRecord
	Saved         bool
	XPGained      int
	XP            int
	Level         int
	PreviousLevel int
	Streak        int
	Achievements  []achievement.Achievement
	Notifications []Notification
	// Err joins every collaborator failure. None of them are fatal.
	Err error
}

// LeveledUp reports whether the session pushed the user to a new level.
func (o Outcome) LeveledUp() bool {
	return o.Level > o.PreviousLevel
}

// Completer runs the side effects of a completed session. Calls to Complete
// are serialized so profile updates never interleave.
type Completer struct {
	Store    Persistence
	Notifier Notifier
	Now      func() time.Time

	mu sync.Mutex
}

// Complete persists rec, evaluates achievements and updates the profile of
// userID. Failures are logged, reported as notifications and joined into
// Outcome.Err; the remaining steps still run.
func (c *Completer) Complete(ctx context.Context, userID string, rec model.SessionRecord, stats scorer.Stats) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := Outcome{Record: rec}
	var errs []error
	fail := func(msg string, err error) {
		err = fmt.Errorf("%s: %w", msg, err)
		log.Errorf("%v", err)
		errs = append(errs, err)
		c.notify(&out, Notification{Kind: NotifyError, Message: msg})
	}

	profile, err := c.Store.Profile(ctx, userID)
	if err != nil {
		fail("failed to load profile", err)
		profile = model.Profile{ID: userID, Level: 1}
	}
	out.XPGained = scorer.XP(stats)
	out.XP = profile.XP + out.XPGained
	out.Level = scorer.Level(out.XP)
	out.PreviousLevel = scorer.Level(profile.XP)
	out.Streak = NextStreak(profile.Streak, profile.LastActive, now)

	saved, err := c.Store.SaveSession(ctx, rec)
	if err != nil {
		fail("failed to save session", err)
	} else {
		out.Record = saved
		out.Saved = true
	}

	out.Achievements = c.evaluate(ctx, userID, out.Record, stats, now, fail)
	for _, a := range out.Achievements {
		c.notify(&out, Notification{
			Kind:    NotifyAchievement,
			Message: fmt.Sprintf("Achievement unlocked: %s!", a.Name),
		})
	}

	update := model.ProfileUpdate{
		XP:         out.XP,
		Level:      out.Level,
		Streak:     out.Streak,
		LastActive: now,
	}
	if err := c.Store.UpdateProfile(ctx, userID, update); err != nil {
		fail("failed to update profile", err)
	}
	if out.LeveledUp() {
		c.notify(&out, Notification{
			Kind:    NotifyLevelUp,
			Message: fmt.Sprintf("Level up! You're now level %d!", out.Level),
		})
	}

	out.Err = errors.Join(errs...)
	return out
}

func (c *Completer) evaluate(ctx context.Context, userID string, rec model.SessionRecord, stats scorer.Stats, now time.Time, fail func(string, error)) []achievement.Achievement {
	unlockedAt, err := c.Store.AchievementUnlocks(ctx, userID)
	if err != nil {
		// Without the unlocked set every rule would fire again.
		fail("failed to load achievements", err)
		return nil
	}
	history, err := c.Store.SessionHistory(ctx, userID)
	if err != nil {
		fail("failed to load session history", err)
	}
	history = includeRecord(history, rec)

	unlocked := make(map[string]struct{}, len(unlockedAt))
	for id := range unlockedAt {
		unlocked[id] = struct{}{}
	}
	earned := achievement.Evaluate(achievement.Input{Current: stats, History: history}, unlocked)

	out := make([]achievement.Achievement, 0, len(earned))
	for _, a := range earned {
		if err := c.Store.UnlockAchievement(ctx, userID, a.ID, now); err != nil {
			fail(fmt.Sprintf("failed to unlock %s", a.Name), err)
			continue
		}
		out = append(out, a)
	}
	return out
}

// includeRecord appends rec to history when the store has not caught up
// with it yet.
func includeRecord(history []model.SessionRecord, rec model.SessionRecord) []model.SessionRecord {
	for _, h := range history {
		if h.ID == rec.ID {
			return history
		}
	}
	return append(history, rec)
}

func (c *Completer) notify(out *Outcome, n Notification) {
	out.Notifications = append(out.Notifications, n)
	if c.Notifier != nil {
		c.Notifier.Notify(n)
	}
}

func (c *Completer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// NextStreak returns the daily streak after practicing at now, given the
// previous streak and last active time. Days are calendar days in now's
// location.
func NextStreak(streak int, lastActive, now time.Time) int {
	if lastActive.IsZero() || streak <= 0 {
		return 1
	}
	last := dayStart(lastActive.In(now.Location()))
	today := dayStart(now)
	switch days := int(math.Round(today.Sub(last).Hours() / 24)); {
	case days <= 0:
		return streak
	case days == 1:
		return streak + 1
	default:
		return 1
	}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
