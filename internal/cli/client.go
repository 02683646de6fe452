package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// InsuranceResponse — детализация страховых взносов из API.
type InsuranceResponse struct {
	Social       int64 `json:"social_insurance"`
	Health       int64 `json:"health_insurance"`
	Unemployment int64 `json:"unemployment_insurance"`
	Total        int64 `json:"total"`
}

// CalcResultResponse — результат расчёта из API.
type CalcResultResponse struct {
	GrossIncome       int64             `json:"gross_income"`
	NetIncome         int64             `json:"net_income"`
	PersonalIncomeTax int64             `json:"personal_income_tax"`
	TotalInsurance    int64             `json:"total_insurance_contribution"`
	Insurance         InsuranceResponse `json:"insurance_breakdown"`
	TaxableIncome     int64             `json:"taxable_income"`
	PreTaxIncome      int64             `json:"pre_tax_income"`
}

// CalcInputResponse — входные данные расчёта из API.
type CalcInputResponse struct {
	GrossIncome int64 `json:"gross_income"`
	Dependents  int   `json:"num_dependents"`
	Region      int   `json:"region"`
}

// CalculationResponse — сохранённый расчёт из API.
type CalculationResponse struct {
	ID        string             `json:"id"`
	Label     string             `json:"label,omitempty"`
	Input     CalcInputResponse  `json:"input"`
	Result    CalcResultResponse `json:"result"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
}

// BatchJobResponse — задание пакетной обработки из API.
type BatchJobResponse struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Status     string `json:"status"`
	TotalRows  int    `json:"total_rows"`
	ErrorRows  int    `json:"error_rows"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// BatchRowResponse — результат одной строки из API.
type BatchRowResponse struct {
	RowNum      int                 `json:"row_num"`
	GrossIncome string              `json:"gross_income"`
	Dependents  string              `json:"dependents"`
	Region      string              `json:"region"`
	Status      string              `json:"status"`
	Error       string              `json:"error,omitempty"`
	Result      *CalcResultResponse `json:"result,omitempty"`
}

// --- Request types ---

// CalcRequest — запрос на расчёт.
type CalcRequest struct {
	GrossIncome int64 `json:"gross_income"`
	Dependents  int   `json:"num_dependents"`
	Region      int   `json:"region"`
}

// SaveCalculationRequest — сохранение расчёта.
type SaveCalculationRequest struct {
	Label string      `json:"label,omitempty"`
	Input CalcRequest `json:"input"`
}

// UpdateCalculationRequest — обновление сохранённого расчёта.
type UpdateCalculationRequest struct {
	Label *string      `json:"label,omitempty"`
	Input *CalcRequest `json:"input,omitempty"`
}

// ListBatchesOpts — параметры фильтрации заданий.
type ListBatchesOpts struct {
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для GrossNet API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Gross-to-net ---

// Calculate выполняет расчёт gross-to-net.
func (c *Client) Calculate(gross int64, dependents, region int) (*CalcResultResponse, error) {
	req := CalcRequest{GrossIncome: gross, Dependents: dependents, Region: region}
	var result CalcResultResponse
	err := c.post("/api/v1/gross-to-net", req, &result)
	return &result, err
}

// GetPolicy возвращает действующую налоговую политику как есть.
func (c *Client) GetPolicy() (json.RawMessage, error) {
	var policy json.RawMessage
	err := c.get("/api/v1/policy", &policy)
	return policy, err
}

// --- Saved calculations ---

// ListCalculations возвращает сохранённые расчёты.
func (c *Client) ListCalculations(limit int) ([]CalculationResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var calcs []CalculationResponse
	err := c.list("/api/v1/calculations", params, &calcs)
	return calcs, err
}

// SaveCalculation выполняет расчёт и сохраняет его.
func (c *Client) SaveCalculation(req SaveCalculationRequest) (*CalculationResponse, error) {
	var calc CalculationResponse
	err := c.post("/api/v1/calculations", req, &calc)
	return &calc, err
}

// GetCalculation возвращает сохранённый расчёт по ID.
func (c *Client) GetCalculation(id string) (*CalculationResponse, error) {
	var calc CalculationResponse
	err := c.get("/api/v1/calculations/"+id, &calc)
	return &calc, err
}

// UpdateCalculation обновляет сохранённый расчёт.
func (c *Client) UpdateCalculation(id string, req UpdateCalculationRequest) (*CalculationResponse, error) {
	var calc CalculationResponse
	err := c.put("/api/v1/calculations/"+id, req, &calc)
	return &calc, err
}

// DeleteCalculation удаляет сохранённый расчёт.
func (c *Client) DeleteCalculation(id string) error {
	return c.delete("/api/v1/calculations/" + id)
}

// --- Batches ---

// ListBatches возвращает задания пакетной обработки.
func (c *Client) ListBatches(opts ListBatchesOpts) ([]BatchJobResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var jobs []BatchJobResponse
	err := c.list("/api/v1/batches", params, &jobs)
	return jobs, err
}

// UploadBatch загружает Excel-файл на обработку.
func (c *Client) UploadBatch(path string) (*BatchJobResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/v1/batches", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var job BatchJobResponse
	err = json.Unmarshal(dr.Data, &job)
	return &job, err
}

// GetBatch возвращает задание по ID.
func (c *Client) GetBatch(id string) (*BatchJobResponse, error) {
	var job BatchJobResponse
	err := c.get("/api/v1/batches/"+id, &job)
	return &job, err
}

// ListBatchRows возвращает построчные результаты задания.
func (c *Client) ListBatchRows(id string) ([]BatchRowResponse, error) {
	var rows []BatchRowResponse
	err := c.list("/api/v1/batches/"+id+"/rows", nil, &rows)
	return rows, err
}

// DownloadBatchResult скачивает итоговый файл задания в outPath.
// Возвращает количество записанных байт.
func (c *Client) DownloadBatchResult(id, format, outPath string) (int64, error) {
	path := "/api/v1/batches/" + id + "/result?format=" + url.QueryEscape(format)

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return 0, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	return io.Copy(out, resp.Body)
}

// DeleteBatch удаляет задание.
func (c *Client) DeleteBatch(id string) error {
	return c.delete("/api/v1/batches/" + id)
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
