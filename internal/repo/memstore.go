package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
)

// In-memory реализации хранилищ. Используются, когда DATABASE_URL не
// задан, и в тестах. Данные живут до рестарта процесса; batch-задания
// при этом обрабатываются in-process тем же бинарём (см. api.Handler).

// MemCalculationStore — in-memory CalculationStore.
type MemCalculationStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Calculation
}

// NewMemCalculationStore создаёт пустое хранилище расчётов.
func NewMemCalculationStore() *MemCalculationStore {
	return &MemCalculationStore{items: make(map[uuid.UUID]domain.Calculation)}
}

// Create сохраняет новый расчёт.
func (s *MemCalculationStore) Create(ctx context.Context, c *domain.Calculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[c.ID]; ok {
		return ErrAlreadyExists
	}
	s.items[c.ID] = *c
	return nil
}

// GetByID возвращает расчёт по ID.
func (s *MemCalculationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// List возвращает расчёты от новых к старым.
func (s *MemCalculationStore) List(ctx context.Context, filter CalculationFilter) ([]domain.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Calculation, 0, len(s.items))
	for _, c := range s.items {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, filter.Limit, filter.Offset), nil
}

// Update обновляет расчёт.
func (s *MemCalculationStore) Update(ctx context.Context, c *domain.Calculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[c.ID]; !ok {
		return ErrNotFound
	}
	s.items[c.ID] = *c
	return nil
}

// Delete удаляет расчёт.
func (s *MemCalculationStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// MemBatchStore — in-memory BatchStore.
type MemBatchStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]domain.BatchJob
	rows map[uuid.UUID][]domain.BatchRow
}

// NewMemBatchStore создаёт пустое хранилище batch-заданий.
func NewMemBatchStore() *MemBatchStore {
	return &MemBatchStore{
		jobs: make(map[uuid.UUID]domain.BatchJob),
		rows: make(map[uuid.UUID][]domain.BatchRow),
	}
}

// Create сохраняет новое задание.
func (s *MemBatchStore) Create(ctx context.Context, j *domain.BatchJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[j.ID]; ok {
		return ErrAlreadyExists
	}
	s.jobs[j.ID] = *j
	return nil
}

// GetByID возвращает задание вместе с байтами файла.
func (s *MemBatchStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &j, nil
}

// List возвращает задания без байтов файла, от новых к старым.
func (s *MemBatchStore) List(ctx context.Context, filter BatchFilter) ([]domain.BatchJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.BatchJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		j.FileData = nil
		all = append(all, j)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, filter.Limit, filter.Offset), nil
}

// Update сохраняет статусные поля задания. FileData не перезаписывается.
func (s *MemBatchStore) Update(ctx context.Context, j *domain.BatchJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[j.ID]
	if !ok {
		return ErrNotFound
	}

	updated := *j
	updated.FileData = existing.FileData
	s.jobs[j.ID] = updated
	return nil
}

// Delete удаляет задание и его строки.
func (s *MemBatchStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	delete(s.rows, id)
	return nil
}

// MarkRunning атомарно переводит задание PENDING → RUNNING.
func (s *MemBatchStore) MarkRunning(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if j.Status != domain.BatchStatusPending {
		return nil, ErrInvalidState
	}

	j.MarkRunning()
	s.jobs[id] = j
	return &j, nil
}

// ListPending возвращает идентификаторы PENDING-заданий, от старых к новым.
func (s *MemBatchStore) ListPending(ctx context.Context, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []domain.BatchJob
	for _, j := range s.jobs {
		if j.Status == domain.BatchStatusPending {
			pending = append(pending, j)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	ids := make([]uuid.UUID, len(pending))
	for i, j := range pending {
		ids[i] = j.ID
	}
	return ids, nil
}

// ReplaceRows заменяет результаты строк задания.
func (s *MemBatchStore) ReplaceRows(ctx context.Context, jobID uuid.UUID, rows []domain.BatchRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[jobID]; !ok {
		return ErrNotFound
	}

	copied := make([]domain.BatchRow, len(rows))
	copy(copied, rows)
	sort.Slice(copied, func(i, j int) bool {
		return copied[i].RowNum < copied[j].RowNum
	})
	s.rows[jobID] = copied
	return nil
}

// ListRows возвращает результаты строк задания по порядку row_num.
func (s *MemBatchStore) ListRows(ctx context.Context, jobID uuid.UUID) ([]domain.BatchRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.jobs[jobID]; !ok {
		return nil, ErrNotFound
	}

	rows := make([]domain.BatchRow, len(s.rows[jobID]))
	copy(rows, s.rows[jobID])
	return rows, nil
}

// DeleteFinishedBefore удаляет завершённые задания старше cutoff.
func (s *MemBatchStore) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, j := range s.jobs {
		if j.IsFinished() && j.FinishedAt != nil && j.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
			delete(s.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

// paginate применяет limit/offset к срезу.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
