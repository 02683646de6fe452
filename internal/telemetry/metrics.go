package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики сервиса. Экспортируются на /metrics каждого бинаря.
var (
	// CalculationsTotal — количество выполненных расчётов gross-to-net
	// (одиночных, через API).
	CalculationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grossnet_calculations_total",
		Help: "Total single gross-to-net calculations served",
	})

	// BatchJobsTotal — количество завершённых batch-заданий по статусам.
	BatchJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grossnet_batch_jobs_total",
		Help: "Total finished batch jobs by status",
	}, []string{"status"})

	// BatchRowsTotal — количество обработанных строк batch-заданий
	// по статусам строк.
	BatchRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grossnet_batch_rows_total",
		Help: "Total processed batch rows by row status",
	}, []string{"status"})

	// HTTPRequestsTotal — количество HTTP-запросов API по методу и статусу.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grossnet_http_requests_total",
		Help: "Total HTTP requests by method and status code",
	}, []string{"method", "status"})
)
