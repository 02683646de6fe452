package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
)

// Компиляционная проверка соответствия интерфейсам.
var (
	_ CalculationStore = (*MemCalculationStore)(nil)
	_ CalculationStore = (*CalculationRepo)(nil)
	_ BatchStore       = (*MemBatchStore)(nil)
	_ BatchStore       = (*BatchRepo)(nil)
)

func newCalculation(label string, createdAt time.Time) *domain.Calculation {
	return &domain.Calculation{
		ID:    uuid.New(),
		Label: label,
		Input: domain.CalcInput{
			GrossIncome: 30_000_000,
			Dependents:  1,
			Region:      1,
		},
		Result:    domain.CalcResult{GrossIncome: 30_000_000, NetIncome: 25_882_500},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemCalculationStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemCalculationStore()

	c := newCalculation("my salary", time.Now())
	if err := s.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Create(ctx, c); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := s.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Label != "my salary" {
		t.Errorf("Label = %q, want %q", got.Label, "my salary")
	}

	got.Label = "updated"
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.GetByID(ctx, c.ID)
	if got.Label != "updated" {
		t.Errorf("Label = %q, want %q", got.Label, "updated")
	}

	if err := s.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemCalculationStore_ListOrderAndPagination(t *testing.T) {
	ctx := context.Background()
	s := NewMemCalculationStore()

	base := time.Now()
	for i := 0; i < 5; i++ {
		c := newCalculation("", base.Add(time.Duration(i)*time.Minute))
		if err := s.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := s.List(ctx, CalculationFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list))
	}
	// Сортировка от новых к старым: offset 1 — второй по новизне
	if !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Errorf("expected descending order")
	}
}

func newJob(status domain.BatchStatus) *domain.BatchJob {
	return &domain.BatchJob{
		ID:        uuid.New(),
		FileName:  "salaries.xlsx",
		Status:    status,
		FileData:  []byte("stub"),
		CreatedAt: time.Now(),
	}
}

func TestMemBatchStore_MarkRunning(t *testing.T) {
	ctx := context.Background()
	s := NewMemBatchStore()

	j := newJob(domain.BatchStatusPending)
	if err := s.Create(ctx, j); err != nil {
		t.Fatalf("create: %v", err)
	}

	claimed, err := s.MarkRunning(ctx, j.ID)
	if err != nil {
		t.Fatalf("mark running: %v", err)
	}
	if claimed.Status != domain.BatchStatusRunning {
		t.Errorf("Status = %s, want RUNNING", claimed.Status)
	}
	if claimed.StartedAt == nil {
		t.Error("StartedAt not set")
	}

	// Повторный claim — ErrInvalidState
	if _, err := s.MarkRunning(ctx, j.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}

	// Несуществующее задание — ErrNotFound
	if _, err := s.MarkRunning(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemBatchStore_ListPendingOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemBatchStore()

	old := newJob(domain.BatchStatusPending)
	old.CreatedAt = time.Now().Add(-time.Hour)
	recent := newJob(domain.BatchStatusPending)
	done := newJob(domain.BatchStatusSucceeded)

	for _, j := range []*domain.BatchJob{recent, old, done} {
		if err := s.Create(ctx, j); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	ids, err := s.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(ids))
	}
	if ids[0] != old.ID {
		t.Errorf("expected oldest job first")
	}
}

func TestMemBatchStore_Rows(t *testing.T) {
	ctx := context.Background()
	s := NewMemBatchStore()

	j := newJob(domain.BatchStatusRunning)
	if err := s.Create(ctx, j); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows := []domain.BatchRow{
		{JobID: j.ID, RowNum: 3, Status: domain.RowStatusOK},
		{JobID: j.ID, RowNum: 2, Status: domain.RowStatusError, Error: "bad region"},
	}
	if err := s.ReplaceRows(ctx, j.ID, rows); err != nil {
		t.Fatalf("replace rows: %v", err)
	}

	got, err := s.ListRows(ctx, j.ID)
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// Строки возвращаются по порядку row_num
	if got[0].RowNum != 2 || got[1].RowNum != 3 {
		t.Errorf("rows out of order: %+v", got)
	}

	if err := s.ReplaceRows(ctx, uuid.New(), rows); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemBatchStore_UpdatePreservesFileData(t *testing.T) {
	ctx := context.Background()
	s := NewMemBatchStore()

	j := newJob(domain.BatchStatusPending)
	if err := s.Create(ctx, j); err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := *j
	upd.FileData = nil
	upd.MarkSucceeded(10, 1)
	if err := s.Update(ctx, &upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetByID(ctx, j.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.FileData) != "stub" {
		t.Error("FileData was overwritten by Update")
	}
	if got.TotalRows != 10 || got.ErrorRows != 1 {
		t.Errorf("counters not updated: %+v", got)
	}
}

func TestMemBatchStore_DeleteFinishedBefore(t *testing.T) {
	ctx := context.Background()
	s := NewMemBatchStore()

	oldDone := newJob(domain.BatchStatusSucceeded)
	oldTime := time.Now().Add(-48 * time.Hour)
	oldDone.FinishedAt = &oldTime

	recentDone := newJob(domain.BatchStatusFailed)
	recentTime := time.Now().Add(-time.Hour)
	recentDone.FinishedAt = &recentTime

	pending := newJob(domain.BatchStatusPending)

	for _, j := range []*domain.BatchJob{oldDone, recentDone, pending} {
		if err := s.Create(ctx, j); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	deleted, err := s.DeleteFinishedBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("delete finished: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	if _, err := s.GetByID(ctx, oldDone.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("old job should be deleted, got %v", err)
	}
	if _, err := s.GetByID(ctx, recentDone.ID); err != nil {
		t.Errorf("recent job should remain: %v", err)
	}
	if _, err := s.GetByID(ctx, pending.ID); err != nil {
		t.Errorf("pending job should remain: %v", err)
	}
}
