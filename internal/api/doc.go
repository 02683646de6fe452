// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go             — Handler с DI (хранилища, publisher, logger)
//   - routes.go              — регистрация маршрутов
//   - middleware.go          — middleware (logging, recovery)
//   - response.go            — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                 — Data Transfer Objects (request/response)
//   - calc_handler.go        — обработчики для /gross-to-net и /policy
//   - calculation_handler.go — обработчики для /calculations
//   - batch_handler.go       — обработчики для /batches
//
// API предоставляет REST endpoints для расчёта gross-to-net,
// сохранённых расчётов и пакетной обработки Excel-файлов.
package api
