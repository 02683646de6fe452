package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
	"github.com/shaiso/GrossNet/internal/repo"
)

// ListCalculations возвращает список сохранённых расчётов.
// GET /api/v1/calculations?limit=...&offset=...
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	filter := repo.CalculationFilter{
		Limit:  parseIntParam(r, "limit", 50),
		Offset: parseIntParam(r, "offset", 0),
	}

	calcs, err := h.calcStore.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]CalculationResponse, len(calcs))
	for i, c := range calcs {
		result[i] = CalculationFromDomain(c)
	}

	List(w, result, len(result))
}

// SaveCalculation выполняет расчёт и сохраняет его.
// POST /api/v1/calculations
func (h *Handler) SaveCalculation(w http.ResponseWriter, r *http.Request) {
	var req SaveCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	input := req.Input.ToInput()
	result, err := h.calculate(input)
	if err != nil {
		h.handleCalcError(w, err)
		return
	}

	now := time.Now()
	calc := &domain.Calculation{
		ID:        uuid.New(),
		Label:     req.Label,
		Input:     input,
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.calcStore.Create(r.Context(), calc); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, CalculationFromDomain(*calc))
}

// GetCalculation возвращает сохранённый расчёт по ID.
// GET /api/v1/calculations/{id}
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid calculation id")
		return
	}

	calc, err := h.calcStore.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "calculation not found") {
		return
	}

	Success(w, CalculationFromDomain(*calc))
}

// UpdateCalculation обновляет сохранённый расчёт.
// Если изменились входные данные, результат пересчитывается.
// PUT /api/v1/calculations/{id}
func (h *Handler) UpdateCalculation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid calculation id")
		return
	}

	var req UpdateCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	calc, err := h.calcStore.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "calculation not found") {
		return
	}

	if req.Label != nil {
		calc.Label = *req.Label
	}

	if req.Input != nil {
		input := req.Input.ToInput()
		result, err := h.calculate(input)
		if err != nil {
			h.handleCalcError(w, err)
			return
		}
		calc.Input = input
		calc.Result = result
	}

	calc.UpdatedAt = time.Now()

	if err := h.calcStore.Update(r.Context(), calc); HandleRepoError(w, h.logger, err, "calculation not found") {
		return
	}

	Success(w, CalculationFromDomain(*calc))
}

// DeleteCalculation удаляет сохранённый расчёт.
// DELETE /api/v1/calculations/{id}
func (h *Handler) DeleteCalculation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid calculation id")
		return
	}

	if err := h.calcStore.Delete(r.Context(), id); err != nil {
		HandleRepoError(w, h.logger, err, "calculation not found")
		return
	}

	NoContent(w)
}

// parseIntParam парсит целочисленный query-параметр с дефолтным значением.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
