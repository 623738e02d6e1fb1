package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/safedep/dry/log"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("APP_LOG_SKIP_STDOUT_LOGGER", "true")
	log.Init("codetype", "test")
	os.Exit(m.Run())
}

func TestValidateConfig(t *testing.T) {
	ok := model.Config{UserID: "local", TabWidth: 4}
	if err := validateConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []model.Config{
		{UserID: "local", TabWidth: 4, Difficulty: "extreme"},
		{UserID: "local", TabWidth: 0},
		{UserID: " ", TabWidth: 4},
	}
	for _, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.UserID() != config.DefaultUserID {
		t.Fatalf("unexpected user id %q", cfg.UserID())
	}
}

func sampleExport() exportDocument {
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return exportDocument{
		Profile: exportProfile{ID: "local", Username: "ada", XP: 120, Level: 2, Streak: 3, LastActive: at},
		Sessions: []model.SessionRecord{
			{ID: "s1", UserID: "local", SnippetID: "go-easy-1", Language: "go", Difficulty: "easy", WPM: 42, Accuracy: 97, ErrorPositions: []int{3}, DurationMs: 30000, CompletedAt: at},
		},
		Achievements: []exportAchievement{{ID: "first_session", Name: "First Steps", UnlockedAt: at}},
	}
}

func TestWriteExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "json", sampleExport()); err != nil {
		t.Fatalf("export: %v", err)
	}
	var got exportDocument
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Profile.Username != "ada" || len(got.Sessions) != 1 || got.Sessions[0].WPM != 42 {
		t.Fatalf("unexpected export: %+v", got)
	}
	if !strings.Contains(buf.String(), `"error_positions"`) {
		t.Fatalf("expected snake_case keys:\n%s", buf.String())
	}
}

func TestWriteExportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "yaml", sampleExport()); err != nil {
		t.Fatalf("export: %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	profile, ok := got["profile"].(map[string]any)
	if !ok || profile["username"] != "ada" {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "first_session") {
		t.Fatalf("expected achievement in yaml:\n%s", buf.String())
	}
}

func TestWriteStatsReport(t *testing.T) {
	records := []model.SessionRecord{
		{ID: "a", Language: "go", Difficulty: "easy", WPM: 30, Accuracy: 90, DurationMs: 60000, CompletedAt: time.Now()},
		{ID: "b", Language: "python", Difficulty: "medium", WPM: 50, Accuracy: 98, DurationMs: 60000, CompletedAt: time.Now()},
	}
	report := stats.Report{
		Profile:      model.Profile{Username: "ada", Level: 1, XP: 40},
		Sessions:     records,
		Summary:      stats.Summarize(records),
		Languages:    stats.ByLanguage(records),
		Difficulties: stats.ByDifficulty(records),
	}
	var buf bytes.Buffer
	if err := writeStatsReport(&buf, report, 2, 60); err != nil {
		t.Fatalf("report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ada · level 1", "Best WPM: 50", "Learning Curves", "By Language", "By Difficulty"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}
