// Package scheduler реализует фоновую очистку хранилища.
//
// Janitor периодически удаляет завершённые задания пакетной обработки
// старше срока хранения: исходные xlsx-файлы лежат в БД вместе с
// заданием, без очистки таблица batch_jobs растёт неограниченно.
//
// Структура:
//   - janitor.go — основная логика (Tick)
//   - cron.go    — расписание запусков (cron-выражение из окружения)
//
// Использование:
//
//	j := scheduler.NewJanitor(scheduler.JanitorConfig{
//	    BatchStore:    batchStore,
//	    RetentionDays: 30,
//	    Logger:        logger,
//	})
//
//	// Вызывается по расписанию CLEANUP_CRON
//	if err := j.Tick(ctx); err != nil {
//	    logger.Error("janitor tick failed", "error", err)
//	}
//
// Leader Election:
//
// Janitor не реализует leader election самостоятельно.
// Это делается в main.go через pg_try_advisory_lock.
// Метод Tick() вызывается только лидером.
package scheduler
