package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/shaiso/GrossNet/internal/domain"
	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/taxcalc"
)

// stubProcessor записывает обработанные задания.
type stubProcessor struct {
	called chan uuid.UUID
}

func (p *stubProcessor) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	p.called <- jobID
	return nil
}

type testEnv struct {
	mux        *http.ServeMux
	calcStore  *repo.MemCalculationStore
	batchStore *repo.MemBatchStore
	processor  *stubProcessor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		calcStore:  repo.NewMemCalculationStore(),
		batchStore: repo.NewMemBatchStore(),
		processor:  &stubProcessor{called: make(chan uuid.UUID, 8)},
	}

	h := NewHandler(Config{
		CalcStore:  env.calcStore,
		BatchStore: env.batchStore,
		Processor:  env.processor,
		Policy:     taxcalc.DefaultPolicy(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	env.mux = http.NewServeMux()
	h.RegisterRoutes(env.mux)
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var resp struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Data
}

// --- Gross-to-net ---

func TestCalculate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/v1/gross-to-net", CalcRequest{
		GrossIncome: 30_000_000,
		Dependents:  1,
		Region:      1,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body)
	}

	result := decodeData[domain.CalcResult](t, rec)
	if result.NetIncome != 25_882_500 {
		t.Errorf("NetIncome = %d, want 25882500", result.NetIncome)
	}
	if result.PersonalIncomeTax != 967_500 {
		t.Errorf("PersonalIncomeTax = %d, want 967500", result.PersonalIncomeTax)
	}
	if result.TotalInsurance != 3_150_000 {
		t.Errorf("TotalInsurance = %d, want 3150000", result.TotalInsurance)
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  CalcRequest
	}{
		{"zero income", CalcRequest{GrossIncome: 0, Region: 1}},
		{"negative dependents", CalcRequest{GrossIncome: 10_000_000, Dependents: -1, Region: 1}},
		{"bad region", CalcRequest{GrossIncome: 10_000_000, Region: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", "/api/v1/gross-to-net", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestExampleCalculation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/v1/gross-to-net", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	example := decodeData[map[string]json.RawMessage](t, rec)
	if _, ok := example["input"]; !ok {
		t.Error("example should contain input")
	}
	if _, ok := example["result"]; !ok {
		t.Error("example should contain result")
	}
}

func TestProbe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "HEAD", "/api/v1/gross-to-net", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetPolicy(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/v1/policy", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	policy := decodeData[taxcalc.Policy](t, rec)
	if policy.Name != "vn-2025-04" {
		t.Errorf("policy name = %q", policy.Name)
	}
	if len(policy.Brackets) != 7 {
		t.Errorf("brackets = %d, want 7", len(policy.Brackets))
	}
}

// --- Saved calculations ---

func TestCalculationCRUD(t *testing.T) {
	env := newTestEnv(t)

	// Create
	rec := env.do(t, "POST", "/api/v1/calculations", SaveCalculationRequest{
		Label: "my salary",
		Input: CalcRequest{GrossIncome: 20_000_000, Region: 1},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201, body: %s", rec.Code, rec.Body)
	}

	created := decodeData[CalculationResponse](t, rec)
	if created.Result.NetIncome != 17_460_000 {
		t.Errorf("NetIncome = %d, want 17460000", created.Result.NetIncome)
	}

	// Get
	rec = env.do(t, "GET", "/api/v1/calculations/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	// Update input recomputes result
	newInput := CalcRequest{GrossIncome: 30_000_000, Dependents: 1, Region: 1}
	rec = env.do(t, "PUT", "/api/v1/calculations/"+created.ID.String(),
		UpdateCalculationRequest{Input: &newInput})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200, body: %s", rec.Code, rec.Body)
	}

	updated := decodeData[CalculationResponse](t, rec)
	if updated.Result.NetIncome != 25_882_500 {
		t.Errorf("recomputed NetIncome = %d, want 25882500", updated.Result.NetIncome)
	}
	if updated.Label != "my salary" {
		t.Errorf("label should be preserved, got %q", updated.Label)
	}

	// List
	rec = env.do(t, "GET", "/api/v1/calculations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}

	list := decodeData[[]CalculationResponse](t, rec)
	if len(list) != 1 {
		t.Errorf("list size = %d, want 1", len(list))
	}

	// Delete
	rec = env.do(t, "DELETE", "/api/v1/calculations/"+created.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = env.do(t, "GET", "/api/v1/calculations/"+created.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestUpdateCalculation_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/v1/calculations", SaveCalculationRequest{
		Input: CalcRequest{GrossIncome: 20_000_000, Region: 1},
	})
	created := decodeData[CalculationResponse](t, rec)

	badInput := CalcRequest{GrossIncome: -1, Region: 1}
	rec = env.do(t, "PUT", "/api/v1/calculations/"+created.ID.String(),
		UpdateCalculationRequest{Input: &badInput})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetCalculation_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/v1/calculations/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = env.do(t, "GET", "/api/v1/calculations/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// --- Batches ---

func buildUpload(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, _ := excelize.JoinCellName("A", i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func (env *testEnv) upload(t *testing.T, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/batches", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateBatch(t *testing.T) {
	env := newTestEnv(t)

	data := buildUpload(t, [][]any{
		{"GrossIncome", "Dependents", "Region"},
		{30000000, 1, 1},
		{20000000, 0, 2},
	})

	rec := env.upload(t, "salaries.xlsx", data)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body: %s", rec.Code, rec.Body)
	}

	job := decodeData[BatchJobResponse](t, rec)
	if job.Status != string(domain.BatchStatusPending) {
		t.Errorf("status = %q, want PENDING", job.Status)
	}
	if job.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", job.TotalRows)
	}
	if job.FileName != "salaries.xlsx" {
		t.Errorf("FileName = %q", job.FileName)
	}

	// Без publisher задание уходит в in-process processor
	select {
	case got := <-env.processor.called:
		if got != job.ID {
			t.Errorf("processed job = %s, want %s", got, job.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not called")
	}
}

func TestCreateBatch_MissingColumns(t *testing.T) {
	env := newTestEnv(t)

	data := buildUpload(t, [][]any{
		{"GrossIncome", "Dependents"},
		{30000000, 1},
	})

	rec := env.upload(t, "bad.xlsx", data)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body)
	}
}

func TestCreateBatch_NotWorkbook(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "junk.xlsx", []byte("this is not a workbook"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateBatch_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/v1/batches", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadBatchResult(t *testing.T) {
	env := newTestEnv(t)

	// Готовое задание с результатами кладём в store напрямую
	job := &domain.BatchJob{
		ID:        uuid.New(),
		FileName:  "salaries.xlsx",
		Status:    domain.BatchStatusPending,
		CreatedAt: time.Now(),
	}
	if err := env.batchStore.Create(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	result, err := taxcalc.Calculate(taxcalc.DefaultPolicy(), domain.CalcInput{
		GrossIncome: 30_000_000, Dependents: 1, Region: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	rows := []domain.BatchRow{{
		JobID:    job.ID,
		RowNum:   2,
		GrossRaw: "30000000", DependentsRaw: "1", RegionRaw: "1",
		Status: domain.RowStatusOK,
		Result: &result,
	}}
	if err := env.batchStore.ReplaceRows(context.Background(), job.ID, rows); err != nil {
		t.Fatal(err)
	}

	job.MarkSucceeded(1, 0)
	if err := env.batchStore.Update(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	// xlsx
	rec := env.do(t, "GET", fmt.Sprintf("/api/v1/batches/%s/result", job.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="salaries_result.xlsx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("result is not a workbook: %v", err)
	}
	f.Close()

	// csv
	rec = env.do(t, "GET", fmt.Sprintf("/api/v1/batches/%s/result?format=csv", job.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}

	// unknown format
	rec = env.do(t, "GET", fmt.Sprintf("/api/v1/batches/%s/result?format=pdf", job.ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("pdf status = %d, want 400", rec.Code)
	}
}

func TestDownloadBatchResult_NotReady(t *testing.T) {
	env := newTestEnv(t)

	job := &domain.BatchJob{
		ID:        uuid.New(),
		FileName:  "salaries.xlsx",
		Status:    domain.BatchStatusPending,
		CreatedAt: time.Now(),
	}
	if err := env.batchStore.Create(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, "GET", fmt.Sprintf("/api/v1/batches/%s/result", job.ID), nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestDeleteBatch(t *testing.T) {
	env := newTestEnv(t)

	job := &domain.BatchJob{
		ID:        uuid.New(),
		Status:    domain.BatchStatusSucceeded,
		CreatedAt: time.Now(),
	}
	if err := env.batchStore.Create(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, "DELETE", "/api/v1/batches/"+job.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = env.do(t, "GET", "/api/v1/batches/"+job.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}
