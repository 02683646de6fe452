package domain

// BatchStatus — статус задания пакетной обработки.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ FAILED
type BatchStatus string

const (
	// BatchStatusPending — задание создано, но ещё не взято в обработку.
	BatchStatusPending BatchStatus = "PENDING"

	// BatchStatusRunning — задание обрабатывается worker-ом.
	BatchStatusRunning BatchStatus = "RUNNING"

	// BatchStatusSucceeded — файл обработан (ошибки отдельных строк
	// учитываются в ErrorRows, но не меняют статус задания).
	BatchStatusSucceeded BatchStatus = "SUCCEEDED"

	// BatchStatusFailed — задание завершилось ошибкой уровня файла
	// (битый xlsx, отсутствующие колонки, пустой файл).
	BatchStatusFailed BatchStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s BatchStatus) IsTerminal() bool {
	switch s {
	case BatchStatusSucceeded, BatchStatusFailed:
		return true
	default:
		return false
	}
}

// RowStatus — статус обработки одной строки файла.
type RowStatus string

const (
	// RowStatusOK — строка рассчитана успешно.
	RowStatusOK RowStatus = "Success"

	// RowStatusError — строка не распарсилась или не прошла валидацию.
	RowStatusError RowStatus = "Error"
)
