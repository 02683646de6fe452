package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
)

// Calculation DTOs

// CalcRequest — запрос на расчёт gross-to-net.
type CalcRequest struct {
	GrossIncome int64 `json:"gross_income"`
	Dependents  int   `json:"num_dependents"`
	Region      int   `json:"region"`
}

// ToInput конвертирует запрос во входные данные расчёта.
func (r CalcRequest) ToInput() domain.CalcInput {
	return domain.CalcInput{
		GrossIncome: r.GrossIncome,
		Dependents:  r.Dependents,
		Region:      r.Region,
	}
}

// SaveCalculationRequest — запрос на сохранение расчёта.
type SaveCalculationRequest struct {
	Label string      `json:"label,omitempty"`
	Input CalcRequest `json:"input"`
}

// UpdateCalculationRequest — запрос на обновление сохранённого расчёта.
// При изменении Input результат пересчитывается.
type UpdateCalculationRequest struct {
	Label *string      `json:"label,omitempty"`
	Input *CalcRequest `json:"input,omitempty"`
}

// CalculationResponse — ответ с сохранённым расчётом.
type CalculationResponse struct {
	ID        uuid.UUID         `json:"id"`
	Label     string            `json:"label,omitempty"`
	Input     domain.CalcInput  `json:"input"`
	Result    domain.CalcResult `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CalculationFromDomain конвертирует domain.Calculation в CalculationResponse.
func CalculationFromDomain(c domain.Calculation) CalculationResponse {
	return CalculationResponse{
		ID:        c.ID,
		Label:     c.Label,
		Input:     c.Input,
		Result:    c.Result,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Batch DTOs

// BatchJobResponse — ответ с заданием пакетной обработки.
type BatchJobResponse struct {
	ID         uuid.UUID  `json:"id"`
	FileName   string     `json:"file_name"`
	Status     string     `json:"status"`
	TotalRows  int        `json:"total_rows"`
	ErrorRows  int        `json:"error_rows"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BatchJobFromDomain конвертирует domain.BatchJob в BatchJobResponse.
func BatchJobFromDomain(j domain.BatchJob) BatchJobResponse {
	return BatchJobResponse{
		ID:         j.ID,
		FileName:   j.FileName,
		Status:     string(j.Status),
		TotalRows:  j.TotalRows,
		ErrorRows:  j.ErrorRows,
		Error:      j.Error,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
		CreatedAt:  j.CreatedAt,
	}
}

// BatchRowResponse — ответ с результатом одной строки.
type BatchRowResponse struct {
	RowNum      int                `json:"row_num"`
	GrossIncome string             `json:"gross_income"`
	Dependents  string             `json:"dependents"`
	Region      string             `json:"region"`
	Status      string             `json:"status"`
	Error       string             `json:"error,omitempty"`
	Result      *domain.CalcResult `json:"result,omitempty"`
}

// BatchRowFromDomain конвертирует domain.BatchRow в BatchRowResponse.
func BatchRowFromDomain(r domain.BatchRow) BatchRowResponse {
	return BatchRowResponse{
		RowNum:      r.RowNum,
		GrossIncome: r.GrossRaw,
		Dependents:  r.DependentsRaw,
		Region:      r.RegionRaw,
		Status:      string(r.Status),
		Error:       r.Error,
		Result:      r.Result,
	}
}
