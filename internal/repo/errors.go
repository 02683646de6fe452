package repo

import "errors"

// Общие ошибки хранилищ.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — запись уже существует (конфликт уникальности).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidState — операция невозможна в текущем состоянии
	// (например, повторный claim уже взятого batch job).
	ErrInvalidState = errors.New("invalid state")

	// ErrNoDatabase — DATABASE_URL не задан.
	ErrNoDatabase = errors.New("DATABASE_URL is not set")
)
