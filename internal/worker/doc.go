// Package worker обрабатывает задания пакетной обработки.
//
// # Обзор
//
// Worker — stateless компонент системы GrossNet, который превращает
// загруженный Excel-файл в построчные результаты gross-to-net.
// Worker отвечает за:
//
//   - Получение заданий из очереди RabbitMQ (event-driven)
//   - Периодическую проверку PENDING заданий в БД (polling fallback)
//   - Парсинг файла и расчёт каждой строки
//   - Запись построчных результатов и итогового статуса задания
//
// Workers масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди batches.submitted. Двойную обработку
// исключает атомарный claim: MarkRunning переводит задание
// PENDING → RUNNING и возвращает ErrInvalidState для уже взятых.
//
// # Ключевые компоненты
//
// ## Processor
//
// Обрабатывает одно задание от claim до записи результатов.
// Используется и Worker-ом, и API напрямую (in-process режим,
// когда RabbitMQ не настроен):
//
//	p := worker.NewProcessor(worker.ProcessorConfig{
//	    BatchStore: batchStore,
//	    Policy:     taxcalc.DefaultPolicy(),
//	    Logger:     logger,
//	})
//	err := p.ProcessJob(ctx, jobID)
//
// ## Worker
//
// Управляет жизненным циклом: consumer + polling горутина.
// Создаётся через New(cfg Config) и запускается методом Start(ctx).
//
// # Обработка задания
//
//  1. Получение события (из очереди или polling)
//  2. Атомарный claim: MarkRunning (PENDING → RUNNING)
//  3. Парсинг файла; битый файл → MarkFailed (ошибка уровня файла)
//  4. Для каждой строки: парсинг ячеек, расчёт gross-to-net
//  5. Ошибка строки не валит задание — записывается в саму строку
//  6. ReplaceRows + MarkSucceeded(totalRows, errorRows)
package worker
