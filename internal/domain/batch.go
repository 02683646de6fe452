package domain

import (
	"time"

	"github.com/google/uuid"
)

// BatchJob — задание пакетной обработки Excel-файла.
//
// BatchJob создаётся при загрузке файла через API. Обработку выполняет
// worker (через RabbitMQ или polling); каждая строка файла превращается
// в BatchRow. Ошибки отдельных строк не валят всё задание — они
// записываются в CalculationStatus/ErrorMessage соответствующей строки.
type BatchJob struct {
	// ID — уникальный идентификатор задания.
	ID uuid.UUID `json:"id"`

	// FileName — имя загруженного файла (для Content-Disposition и UI).
	FileName string `json:"file_name"`

	// Status — текущий статус обработки.
	Status BatchStatus `json:"status"`

	// TotalRows — количество строк данных в файле.
	// Заполняется после парсинга.
	TotalRows int `json:"total_rows"`

	// ErrorRows — количество строк, завершившихся ошибкой.
	ErrorRows int `json:"error_rows"`

	// Error — текст ошибки уровня файла (не строки), если Status=FAILED.
	Error string `json:"error,omitempty"`

	// FileData — исходные байты загруженного .xlsx.
	// Не сериализуется в API-ответы и не возвращается в списках.
	FileData []byte `json:"-"`

	// StartedAt — время начала обработки (когда статус стал RUNNING).
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения обработки.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время загрузки файла.
	CreatedAt time.Time `json:"created_at"`
}

// IsFinished возвращает true, если задание завершено.
func (j *BatchJob) IsFinished() bool {
	return j.Status.IsTerminal()
}

// MarkRunning переводит задание в статус RUNNING.
func (j *BatchJob) MarkRunning() {
	now := time.Now()
	j.Status = BatchStatusRunning
	j.StartedAt = &now
}

// MarkSucceeded переводит задание в статус SUCCEEDED.
func (j *BatchJob) MarkSucceeded(totalRows, errorRows int) {
	now := time.Now()
	j.Status = BatchStatusSucceeded
	j.TotalRows = totalRows
	j.ErrorRows = errorRows
	j.FinishedAt = &now
}

// MarkFailed переводит задание в статус FAILED с ошибкой уровня файла.
func (j *BatchJob) MarkFailed(err string) {
	now := time.Now()
	j.Status = BatchStatusFailed
	j.Error = err
	j.FinishedAt = &now
}

// BatchRow — результат обработки одной строки Excel-файла.
//
// Исходные ячейки хранятся как строки: при ошибке парсинга они
// попадают в итоговый файл без изменений, как в форме загрузки.
type BatchRow struct {
	// JobID — ссылка на задание.
	JobID uuid.UUID `json:"job_id"`

	// RowNum — номер строки в исходном файле (2 = первая строка данных,
	// строка 1 — заголовок).
	RowNum int `json:"row_num"`

	// GrossRaw — исходная ячейка колонки GrossIncome.
	GrossRaw string `json:"gross_income"`

	// DependentsRaw — исходная ячейка колонки Dependents.
	DependentsRaw string `json:"dependents"`

	// RegionRaw — исходная ячейка колонки Region.
	RegionRaw string `json:"region"`

	// Status — статус строки: OK или ERROR.
	Status RowStatus `json:"status"`

	// Error — сообщение об ошибке парсинга или расчёта.
	Error string `json:"error,omitempty"`

	// Result — результат расчёта. Nil, если Status=ERROR.
	Result *CalcResult `json:"result,omitempty"`
}
