// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/codetype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DefaultLeaderboardLimit caps leaderboard queries without an explicit limit.
const DefaultLeaderboardLimit = 10

// timeLayout is fixed width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for profiles, sessions and achievements.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			streak INTEGER NOT NULL DEFAULT 0,
			last_active TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS typing_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			snippet_id TEXT NOT NULL,
			language TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			error_positions TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			completed_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at TEXT NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_sessions_user ON typing_sessions(user_id, completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_sessions_wpm ON typing_sessions(wpm DESC, accuracy DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, v)
}

// EnsureProfile returns the profile for userID, creating it when missing. A
// non-empty username replaces the stored one.
func (s *Store) EnsureProfile(ctx context.Context, userID, username string) (model.Profile, error) {
	if userID == "" {
		return model.Profile{}, fmt.Errorf("user id is empty")
	}
	name := username
	if name == "" {
		name = userID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, username, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		userID, name, formatTime(s.now()))
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	if username != "" {
		if _, err := s.db.ExecContext(ctx, `UPDATE profiles SET username = ? WHERE id = ?`, username, userID); err != nil {
			return model.Profile{}, fmt.Errorf("failed to rename profile: %w", err)
		}
	}
	return s.Profile(ctx, userID)
}

// Profile loads the profile for userID or returns ErrNotFound.
func (s *Store) Profile(ctx context.Context, userID string) (model.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, xp, level, streak, last_active, created_at FROM profiles WHERE id = ?`, userID)
	var p model.Profile
	var lastActive, createdAt string
	if err := row.Scan(&p.ID, &p.Username, &p.XP, &p.Level, &p.Streak, &lastActive, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}
		return model.Profile{}, err
	}
	var err error
	if p.LastActive, err = parseTime(lastActive); err != nil {
		return model.Profile{}, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// UpdateProfile writes progression fields, creating the profile if needed.
func (s *Store) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, username, xp, level, streak, last_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			xp = excluded.xp,
			level = excluded.level,
			streak = excluded.streak,
			last_active = excluded.last_active`,
		userID, userID, update.XP, update.Level, update.Streak, formatTime(update.LastActive), formatTime(s.now()))
	return err
}

// SaveSession stores a completed session. Missing ids and completion times
// are filled in; the stored record is returned.
func (s *Store) SaveSession(ctx context.Context, rec model.SessionRecord) (model.SessionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = s.now()
	}
	if rec.ErrorPositions == nil {
		rec.ErrorPositions = []int{}
	}
	positions, err := json.Marshal(rec.ErrorPositions)
	if err != nil {
		return model.SessionRecord{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO typing_sessions (id, user_id, snippet_id, language, difficulty, wpm, raw_wpm, accuracy, errors, error_positions, duration_ms, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.UserID,
		rec.SnippetID,
		rec.Language,
		rec.Difficulty,
		rec.WPM,
		rec.RawWPM,
		rec.Accuracy,
		rec.Errors,
		string(positions),
		rec.DurationMs,
		formatTime(rec.CompletedAt),
	)
	if err != nil {
		return model.SessionRecord{}, err
	}
	return rec, nil
}

// SessionHistory returns every session of userID, oldest first.
func (s *Store) SessionHistory(ctx context.Context, userID string) ([]model.SessionRecord, error) {
	return s.ListSessions(ctx, model.StatsConfig{UserID: userID})
}

// ListSessions returns sessions filtered by cfg, oldest first. Empty filters
// match everything; Last keeps only the most recent sessions.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, cfg.UserID)
	}
	if cfg.Language != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, cfg.Language)
	}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, cfg.Difficulty)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, user_id, snippet_id, language, difficulty, wpm, raw_wpm, accuracy, errors, error_positions, duration_ms, completed_at
		FROM typing_sessions
		WHERE %s
		ORDER BY completed_at DESC, rowid DESC`, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var positions, completedAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SnippetID, &rec.Language, &rec.Difficulty,
			&rec.WPM, &rec.RawWPM, &rec.Accuracy, &rec.Errors, &positions, &rec.DurationMs, &completedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(positions), &rec.ErrorPositions); err != nil {
			return nil, fmt.Errorf("session %s: bad error positions: %w", rec.ID, err)
		}
		if rec.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

// DeleteSessionsBefore removes sessions completed before cutoff and returns
// how many were deleted. Profiles and achievements are kept.
func (s *Store) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM typing_sessions WHERE completed_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AchievementUnlocks maps each achievement userID unlocked to its unlock time.
func (s *Store) AchievementUnlocks(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement_id, unlocked_at FROM user_achievements WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[string]time.Time{}
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		parsed, err := parseTime(at)
		if err != nil {
			return nil, err
		}
		result[id] = parsed
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UnlockAchievement records an unlock. Unlocking twice keeps the first time.
func (s *Store) UnlockAchievement(ctx context.Context, userID, achievementID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_achievements (user_id, achievement_id, unlocked_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, achievement_id) DO NOTHING`,
		userID, achievementID, formatTime(at))
	return err
}

// Leaderboard ranks sessions by wpm then accuracy.
func (s *Store) Leaderboard(ctx context.Context, q model.LeaderboardQuery) ([]model.LeaderboardEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if q.Language != "" {
		clauses = append(clauses, "s.language = ?")
		args = append(args, q.Language)
	}
	if q.Difficulty != "" {
		clauses = append(clauses, "s.difficulty = ?")
		args = append(args, q.Difficulty)
	}
	if q.Since != nil {
		clauses = append(clauses, "s.completed_at >= ?")
		args = append(args, formatTime(*q.Since))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT s.id, COALESCE(p.username, s.user_id), COALESCE(p.level, 1),
			s.wpm, s.accuracy, s.language, s.difficulty, s.completed_at
		FROM typing_sessions s
		LEFT JOIN profiles p ON p.id = s.user_id
		WHERE %s
		ORDER BY s.wpm DESC, s.accuracy DESC, s.completed_at ASC
		LIMIT ?`, strings.Join(clauses, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var completedAt string
		if err := rows.Scan(&e.SessionID, &e.Username, &e.Level, &e.WPM, &e.Accuracy, &e.Language, &e.Difficulty, &completedAt); err != nil {
			return nil, err
		}
		if e.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
