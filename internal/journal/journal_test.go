package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/robot"
)

func testConfig(t *testing.T) config.JournalConfig {
	t.Helper()
	return config.JournalConfig{
		Enabled:     true,
		Path:        filepath.Join(t.TempDir(), "journal.db"),
		WALMode:     true,
		BusyTimeout: 5,
	}
}

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_Disabled(t *testing.T) {
	_, err := Open(config.JournalConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Open() error = %v, want ErrDisabled", err)
	}
}

func TestRecord_And_Recent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	events := []struct{ event, detail string }{
		{"ready", ""},
		{"error", "connection refused"},
		{"ready", ""},
	}
	for _, e := range events {
		if err := j.Record(ctx, "Ultron", e.event, e.detail); err != nil {
			t.Fatalf("Record(%q) error = %v", e.event, err)
		}
	}
	if err := j.Record(ctx, "Spectre", "ready", ""); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := j.Recent(ctx, "Ultron", 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(entries))
	}
	// Newest first.
	if entries[0].Event != "ready" || entries[1].Event != "error" {
		t.Errorf("Recent() order = %q, %q; want ready, error", entries[0].Event, entries[1].Event)
	}
	if entries[1].Detail != "connection refused" {
		t.Errorf("Recent() detail = %q, want %q", entries[1].Detail, "connection refused")
	}
	for _, e := range entries {
		if e.Robot != "Ultron" {
			t.Errorf("Recent() returned entry for robot %q", e.Robot)
		}
		if e.RecordedAt.IsZero() {
			t.Error("Recent() entry has zero timestamp")
		}
	}
}

func TestRecent_LimitApplied(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := j.Record(ctx, "Ultron", "ready", ""); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := j.Recent(ctx, "Ultron", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Recent(limit=2) returned %d entries", len(entries))
	}
}

func TestRecord_InvalidEntry(t *testing.T) {
	j := openTestJournal(t)

	if err := j.Record(context.Background(), "", "ready", ""); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Record() error = %v, want ErrInvalidEntry", err)
	}
	if err := j.Record(context.Background(), "Ultron", "", ""); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Record() error = %v, want ErrInvalidEntry", err)
	}
}

func TestAttach_RecordsLifecycleEvents(t *testing.T) {
	j := openTestJournal(t)

	bot, err := robot.New(robot.Config{Name: "Ultron"})
	if err != nil {
		t.Fatalf("robot.New() error = %v", err)
	}
	j.Attach(bot)

	bot.Emit(robot.EventReady, bot)
	bot.Emit(robot.EventError, errors.New("boom"))

	entries, err := j.Recent(context.Background(), "Ultron", 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(entries))
	}
	if entries[0].Event != "error" || entries[0].Detail != "boom" {
		t.Errorf("newest entry = %q/%q, want error/boom", entries[0].Event, entries[0].Detail)
	}
	if entries[1].Event != "ready" {
		t.Errorf("oldest entry = %q, want ready", entries[1].Event)
	}
}

func TestHealthCheck(t *testing.T) {
	j := openTestJournal(t)
	if err := j.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
