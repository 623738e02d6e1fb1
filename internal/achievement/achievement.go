// Package achievement defines milestones and decides when they unlock.
package achievement

import (
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/scorer"
)

// Category groups achievements for display.
type Category string

// Achievement categories.
const (
	CategorySpeed       Category = "speed"
	CategoryAccuracy    Category = "accuracy"
	CategoryConsistency Category = "consistency"
	CategoryStreak      Category = "streak"
	CategorySpecial     Category = "special"
)

// Achievement is a named milestone.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	Requirement int

	rule rule
}

// Input is what a rule can look at: the session that just finished and the
// user's session history including it.
type Input struct {
	Current scorer.Stats
	History []model.SessionRecord
}

type rule func(a Achievement, in Input) bool

// Unlockable reports whether the achievement has an unlock rule at all.
func (a Achievement) Unlockable() bool {
	return a.rule != nil
}

var catalog = []Achievement{
	{
		ID:          "first_session",
		Name:        "First Steps",
		Description: "Complete your first typing session",
		Icon:        "🎯",
		Category:    CategorySpecial,
		Requirement: 1,
		rule:        sessionCountAtLeast,
	},
	{
		ID:          "speed_demon_50",
		Name:        "Speed Demon",
		Description: "Reach 50 WPM",
		Icon:        "⚡",
		Category:    CategorySpeed,
		Requirement: 50,
		rule:        wpmAtLeast,
	},
	{
		ID:          "speed_demon_100",
		Name:        "Lightning Fast",
		Description: "Reach 100 WPM",
		Icon:        "🚀",
		Category:    CategorySpeed,
		Requirement: 100,
		rule:        wpmAtLeast,
	},
	{
		ID:          "accuracy_master",
		Name:        "Accuracy Master",
		Description: "Achieve 100% accuracy",
		Icon:        "🎯",
		Category:    CategoryAccuracy,
		Requirement: 100,
		rule:        accuracyAtLeast,
	},
	// Consistency and streak thresholds are not settled, so these two are
	// listed without a rule and never unlock.
	{
		ID:          "consistency_king",
		Name:        "Consistency King",
		Description: "Maintain high accuracy across many sessions",
		Icon:        "👑",
		Category:    CategoryConsistency,
		Requirement: 10,
	},
	{
		ID:          "streak_warrior",
		Name:        "Streak Warrior",
		Description: "Practice several days in a row",
		Icon:        "🔥",
		Category:    CategoryStreak,
		Requirement: 7,
	},
	{
		ID:          "marathon_runner",
		Name:        "Marathon Runner",
		Description: "Complete 100 sessions",
		Icon:        "🏃",
		Category:    CategorySpecial,
		Requirement: 100,
		rule:        sessionCountAtLeast,
	},
}

// All returns every known achievement in display order.
func All() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds an achievement by id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Evaluate returns the achievements newly earned by in, skipping the ids in
// unlocked.
func Evaluate(in Input, unlocked map[string]struct{}) []Achievement {
	var earned []Achievement
	for _, a := range catalog {
		if _, ok := unlocked[a.ID]; ok {
			continue
		}
		if a.rule == nil {
			continue
		}
		if a.rule(a, in) {
			earned = append(earned, a)
		}
	}
	return earned
}

func sessionCountAtLeast(a Achievement, in Input) bool {
	return len(in.History) >= a.Requirement
}

func wpmAtLeast(a Achievement, in Input) bool {
	return in.Current.WPM >= a.Requirement
}

func accuracyAtLeast(a Achievement, in Input) bool {
	return in.Current.Accuracy >= a.Requirement
}
