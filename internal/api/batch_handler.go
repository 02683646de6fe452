package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/sheet"
)

// maxUploadSize — ограничение размера загружаемого файла.
const maxUploadSize = 20 << 20 // 20 MiB

// CreateBatch принимает Excel-файл и создаёт задание пакетной обработки.
// POST /api/v1/batches (multipart/form-data, поле "file")
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequest(w, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		BadRequest(w, "failed to read uploaded file")
		return
	}

	// Валидируем файл сразу: битый workbook или отсутствующие колонки
	// не должны попадать в очередь.
	rows, err := sheet.Parse(data)
	if err != nil {
		h.handleSheetError(w, err)
		return
	}

	job := &domain.BatchJob{
		ID:        uuid.New(),
		FileName:  header.Filename,
		Status:    domain.BatchStatusPending,
		TotalRows: len(rows),
		FileData:  data,
		CreatedAt: time.Now(),
	}

	if err := h.batchStore.Create(r.Context(), job); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.dispatchBatch(r.Context(), job.ID)

	Accepted(w, BatchJobFromDomain(*job))
}

// dispatchBatch отправляет задание на обработку.
//
// С RabbitMQ — публикация события (при сбое задание подберёт
// polling-цикл worker-а). Без RabbitMQ — обработка в том же процессе.
func (h *Handler) dispatchBatch(ctx context.Context, jobID uuid.UUID) {
	if h.publisher != nil {
		if err := h.publisher.PublishBatchSubmitted(ctx, jobID); err != nil {
			h.logger.Warn("failed to publish batch.submitted",
				"job_id", jobID, "error", err)
		}
		return
	}

	if h.processor != nil {
		go func() {
			if err := h.processor.ProcessJob(context.Background(), jobID); err != nil {
				h.logger.Error("in-process batch failed",
					"job_id", jobID, "error", err)
			}
		}()
	}
}

// ListBatches возвращает список заданий.
// GET /api/v1/batches?status=...&limit=...&offset=...
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	filter := repo.BatchFilter{
		Status: domain.BatchStatus(r.URL.Query().Get("status")),
		Limit:  parseIntParam(r, "limit", 50),
		Offset: parseIntParam(r, "offset", 0),
	}

	jobs, err := h.batchStore.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]BatchJobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = BatchJobFromDomain(j)
	}

	List(w, result, len(result))
}

// GetBatch возвращает задание по ID.
// GET /api/v1/batches/{id}
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	job, ok := h.batchByID(w, r)
	if !ok {
		return
	}

	Success(w, BatchJobFromDomain(*job))
}

// ListBatchRows возвращает построчные результаты задания.
// GET /api/v1/batches/{id}/rows
func (h *Handler) ListBatchRows(w http.ResponseWriter, r *http.Request) {
	job, ok := h.batchByID(w, r)
	if !ok {
		return
	}

	rows, err := h.batchStore.ListRows(r.Context(), job.ID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]BatchRowResponse, len(rows))
	for i, row := range rows {
		result[i] = BatchRowFromDomain(row)
	}

	List(w, result, len(result))
}

// DownloadBatchResult отдаёт итоговый файл задания.
// GET /api/v1/batches/{id}/result?format=xlsx|csv
func (h *Handler) DownloadBatchResult(w http.ResponseWriter, r *http.Request) {
	job, ok := h.batchByID(w, r)
	if !ok {
		return
	}

	if job.Status != domain.BatchStatusSucceeded {
		InvalidState(w, fmt.Sprintf("batch is %s, result is not ready", job.Status))
		return
	}

	rows, err := h.batchStore.ListRows(r.Context(), job.ID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}

	var (
		data        []byte
		contentType string
	)

	switch format {
	case "xlsx":
		data, err = sheet.WriteXLSX(rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		data, err = sheet.WriteCSV(rows)
		contentType = "text/csv"
	default:
		BadRequest(w, "format must be xlsx or csv")
		return
	}

	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	filename := resultFileName(job.FileName, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// DeleteBatch удаляет задание вместе с построчными результатами.
// DELETE /api/v1/batches/{id}
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid batch id")
		return
	}

	if err := h.batchStore.Delete(r.Context(), id); err != nil {
		HandleRepoError(w, h.logger, err, "batch not found")
		return
	}

	NoContent(w)
}

// batchByID загружает задание из path-параметра {id}.
func (h *Handler) batchByID(w http.ResponseWriter, r *http.Request) (*domain.BatchJob, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid batch id")
		return nil, false
	}

	job, err := h.batchStore.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "batch not found") {
		return nil, false
	}

	return job, true
}

// handleSheetError преобразует ошибку парсинга файла в HTTP ответ.
func (h *Handler) handleSheetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sheet.ErrNotWorkbook),
		errors.Is(err, sheet.ErrNoSheets),
		errors.Is(err, sheet.ErrMissingColumns),
		errors.Is(err, sheet.ErrNoDataRows):
		BadRequest(w, err.Error())
	default:
		InternalError(w, h.logger, err)
	}
}

// resultFileName строит имя итогового файла из имени исходного.
func resultFileName(original, format string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	if base == "" {
		base = "batch"
	}
	return base + "_result." + format
}
