package worker

import "errors"

// Ошибки воркера.
var (
	// ErrJobNotFound — задание не найдено в хранилище.
	ErrJobNotFound = errors.New("batch job not found")

	// ErrJobNotPending — задание уже взято другим worker-ом
	// или завершено.
	ErrJobNotPending = errors.New("batch job is not in PENDING status")
)
