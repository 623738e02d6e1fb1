// Package model defines shared data structures.
package model

import "time"

// Difficulty levels a snippet can carry.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Difficulties lists the known difficulty levels in ascending order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Config defines practice settings.
type Config struct {
	Language      string
	Difficulty    string
	UserID        string
	Username      string
	ShowLiveStats bool
	AutoIndent    bool
	TabWidth      int
	Seed          int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	UserID      string
	Language    string
	Difficulty  string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Snippet is a block of source code the user has to reproduce.
type Snippet struct {
	ID          string   `toml:"id" bson:"id" json:"id" yaml:"id"`
	Language    string   `toml:"language" bson:"language" json:"language" yaml:"language"`
	Difficulty  string   `toml:"difficulty" bson:"difficulty" json:"difficulty" yaml:"difficulty"`
	Title       string   `toml:"title" bson:"title" json:"title" yaml:"title"`
	Description string   `toml:"description" bson:"description" json:"description,omitempty" yaml:"description,omitempty"`
	Code        string   `toml:"code" bson:"code" json:"code" yaml:"code"`
	Tags        []string `toml:"tags" bson:"tags" json:"tags,omitempty" yaml:"tags,omitempty"`
}

// SessionRecord captures a completed typing session.
type SessionRecord struct {
	ID             string    `json:"id" yaml:"id"`
	UserID         string    `json:"user_id" yaml:"user_id"`
	SnippetID      string    `json:"snippet_id" yaml:"snippet_id"`
	Language       string    `json:"language" yaml:"language"`
	Difficulty     string    `json:"difficulty" yaml:"difficulty"`
	WPM            int       `json:"wpm" yaml:"wpm"`
	RawWPM         int       `json:"raw_wpm" yaml:"raw_wpm"`
	Accuracy       int       `json:"accuracy" yaml:"accuracy"`
	Errors         int       `json:"errors" yaml:"errors"`
	ErrorPositions []int     `json:"error_positions" yaml:"error_positions"`
	DurationMs     int64     `json:"duration_ms" yaml:"duration_ms"`
	CompletedAt    time.Time `json:"completed_at" yaml:"completed_at"`
}

// Profile holds the progression state of a user.
type Profile struct {
	ID         string
	Username   string
	XP         int
	Level      int
	Streak     int
	LastActive time.Time
	CreatedAt  time.Time
}

// ProfileUpdate is the set of progression fields written after a session.
type ProfileUpdate struct {
	XP         int
	Level      int
	Streak     int
	LastActive time.Time
}

// LeaderboardQuery filters leaderboard entries. Empty fields match anything.
type LeaderboardQuery struct {
	Language   string
	Difficulty string
	Since      *time.Time
	Limit      int
}

// LeaderboardEntry is one ranked session.
type LeaderboardEntry struct {
	SessionID   string
	Username    string
	Level       int
	WPM         int
	Accuracy    int
	Language    string
	Difficulty  string
	CompletedAt time.Time
}
