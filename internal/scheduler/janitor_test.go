package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
	"github.com/shaiso/GrossNet/internal/repo"
)

func addJob(t *testing.T, store repo.BatchStore, status domain.BatchStatus, finishedAgo time.Duration) uuid.UUID {
	t.Helper()

	job := &domain.BatchJob{
		ID:        uuid.New(),
		FileName:  "salaries.xlsx",
		Status:    status,
		CreatedAt: time.Now().Add(-finishedAgo),
	}
	if status.IsTerminal() {
		finished := time.Now().Add(-finishedAgo)
		job.FinishedAt = &finished
	}

	if err := store.Create(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	return job.ID
}

func TestJanitorTick(t *testing.T) {
	store := repo.NewMemBatchStore()
	j := NewJanitor(JanitorConfig{
		BatchStore:    store,
		RetentionDays: 30,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	oldSucceeded := addJob(t, store, domain.BatchStatusSucceeded, 40*24*time.Hour)
	oldFailed := addJob(t, store, domain.BatchStatusFailed, 40*24*time.Hour)
	freshSucceeded := addJob(t, store, domain.BatchStatusSucceeded, 24*time.Hour)
	oldPending := addJob(t, store, domain.BatchStatusPending, 40*24*time.Hour)

	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	for _, id := range []uuid.UUID{oldSucceeded, oldFailed} {
		if _, err := store.GetByID(context.Background(), id); err == nil {
			t.Errorf("old finished job %s should be deleted", id)
		}
	}

	// Свежие и незавершённые задания остаются
	for _, id := range []uuid.UUID{freshSucceeded, oldPending} {
		if _, err := store.GetByID(context.Background(), id); err != nil {
			t.Errorf("job %s should survive cleanup: %v", id, err)
		}
	}
}

func TestJanitorTick_Empty(t *testing.T) {
	store := repo.NewMemBatchStore()
	j := NewJanitor(JanitorConfig{BatchStore: store})

	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("Tick on empty store: %v", err)
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("0 3 * * *"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	if err := ValidateCronExpr("not a cron"); err == nil {
		t.Error("invalid expression accepted")
	}
}

func TestCleanupSchedule_Default(t *testing.T) {
	t.Setenv("CLEANUP_CRON", "")

	schedule, err := CleanupSchedule()
	if err != nil {
		t.Fatalf("CleanupSchedule: %v", err)
	}

	// Дефолт — каждый день в 03:00
	from := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	next := schedule.Next(from)
	want := time.Date(2026, 1, 11, 3, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %s, want %s", next, want)
	}
}

func TestCleanupSchedule_Invalid(t *testing.T) {
	t.Setenv("CLEANUP_CRON", "nonsense")

	if _, err := CleanupSchedule(); err == nil {
		t.Error("expected error for invalid CLEANUP_CRON")
	}
}
