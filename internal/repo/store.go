package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
)

// CalculationFilter — параметры выборки сохранённых расчётов.
type CalculationFilter struct {
	Limit  int
	Offset int
}

// CalculationStore — хранилище сохранённых расчётов.
//
// Две реализации: CalculationRepo (Postgres) и MemCalculationStore
// (in-memory, когда DATABASE_URL не задан; также используется в тестах).
type CalculationStore interface {
	Create(ctx context.Context, c *domain.Calculation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Calculation, error)
	List(ctx context.Context, filter CalculationFilter) ([]domain.Calculation, error)
	Update(ctx context.Context, c *domain.Calculation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BatchFilter — параметры выборки batch jobs.
type BatchFilter struct {
	Status domain.BatchStatus
	Limit  int
	Offset int
}

// BatchStore — хранилище заданий пакетной обработки.
type BatchStore interface {
	Create(ctx context.Context, j *domain.BatchJob) error

	// GetByID возвращает задание вместе с байтами файла.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error)

	// List возвращает задания без байтов файла.
	List(ctx context.Context, filter BatchFilter) ([]domain.BatchJob, error)

	// Update сохраняет статусные поля задания (не FileData).
	Update(ctx context.Context, j *domain.BatchJob) error

	Delete(ctx context.Context, id uuid.UUID) error

	// MarkRunning атомарно переводит задание PENDING → RUNNING.
	// Возвращает ErrInvalidState, если задание уже взято или завершено:
	// так consumer и polling-цикл не обрабатывают задание дважды.
	MarkRunning(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error)

	// ListPending возвращает идентификаторы заданий в статусе PENDING,
	// от старых к новым. Используется polling-циклом worker-а.
	ListPending(ctx context.Context, limit int) ([]uuid.UUID, error)

	// ReplaceRows заменяет результаты строк задания.
	ReplaceRows(ctx context.Context, jobID uuid.UUID, rows []domain.BatchRow) error

	// ListRows возвращает результаты строк по порядку row_num.
	ListRows(ctx context.Context, jobID uuid.UUID) ([]domain.BatchRow, error)

	// DeleteFinishedBefore удаляет завершённые задания старше cutoff.
	// Возвращает количество удалённых. Используется janitor-ом.
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
