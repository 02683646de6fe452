package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaiso/GrossNet/internal/domain"
	"github.com/shaiso/GrossNet/internal/taxcalc"
	"github.com/shaiso/GrossNet/internal/telemetry"
)

// Calculate выполняет расчёт gross-to-net без сохранения.
// POST /api/v1/gross-to-net
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	result, err := h.calculate(req.ToInput())
	if err != nil {
		h.handleCalcError(w, err)
		return
	}

	Success(w, result)
}

// ExampleCalculation возвращает пример расчёта с дефолтными входными
// данными. Используется как живая документация endpoint-а.
// GET /api/v1/gross-to-net
func (h *Handler) ExampleCalculation(w http.ResponseWriter, r *http.Request) {
	input := domain.CalcInput{
		GrossIncome: 30_000_000,
		Dependents:  1,
		Region:      1,
	}

	result, err := h.calculate(input)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, map[string]any{
		"input":  input,
		"result": result,
	})
}

// Probe отвечает на HEAD-запрос без тела. Health check для
// балансировщиков и фронтенда.
// HEAD /api/v1/gross-to-net
func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GetPolicy возвращает действующую налоговую политику.
// GET /api/v1/policy
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	Success(w, h.policy)
}

// calculate выполняет расчёт и обновляет метрику.
func (h *Handler) calculate(input domain.CalcInput) (domain.CalcResult, error) {
	result, err := taxcalc.Calculate(h.policy, input)
	if err != nil {
		return domain.CalcResult{}, err
	}

	telemetry.CalculationsTotal.Inc()
	return result, nil
}

// handleCalcError преобразует ошибку расчёта в HTTP ответ.
// Ошибки валидации входных данных — 400, остальное — 500.
func (h *Handler) handleCalcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, taxcalc.ErrNonPositiveIncome),
		errors.Is(err, taxcalc.ErrNegativeDependents),
		errors.Is(err, taxcalc.ErrInvalidRegion):
		BadRequest(w, err.Error())
	default:
		InternalError(w, h.logger, err)
	}
}
