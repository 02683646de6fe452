package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Gross-to-net
	mux.Handle("POST /api/v1/gross-to-net", chain(http.HandlerFunc(h.Calculate)))
	mux.Handle("GET /api/v1/gross-to-net", chain(http.HandlerFunc(h.ExampleCalculation)))
	mux.Handle("HEAD /api/v1/gross-to-net", chain(http.HandlerFunc(h.Probe)))
	mux.Handle("GET /api/v1/policy", chain(http.HandlerFunc(h.GetPolicy)))

	// Saved calculations
	mux.Handle("GET /api/v1/calculations", chain(http.HandlerFunc(h.ListCalculations)))
	mux.Handle("POST /api/v1/calculations", chain(http.HandlerFunc(h.SaveCalculation)))
	mux.Handle("GET /api/v1/calculations/{id}", chain(http.HandlerFunc(h.GetCalculation)))
	mux.Handle("PUT /api/v1/calculations/{id}", chain(http.HandlerFunc(h.UpdateCalculation)))
	mux.Handle("DELETE /api/v1/calculations/{id}", chain(http.HandlerFunc(h.DeleteCalculation)))

	// Batches
	mux.Handle("GET /api/v1/batches", chain(http.HandlerFunc(h.ListBatches)))
	mux.Handle("POST /api/v1/batches", chain(http.HandlerFunc(h.CreateBatch)))
	mux.Handle("GET /api/v1/batches/{id}", chain(http.HandlerFunc(h.GetBatch)))
	mux.Handle("GET /api/v1/batches/{id}/rows", chain(http.HandlerFunc(h.ListBatchRows)))
	mux.Handle("GET /api/v1/batches/{id}/result", chain(http.HandlerFunc(h.DownloadBatchResult)))
	mux.Handle("DELETE /api/v1/batches/{id}", chain(http.HandlerFunc(h.DeleteBatch)))
}
