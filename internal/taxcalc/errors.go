package taxcalc

import "errors"

// Ошибки валидации входных данных расчёта.
var (
	// ErrNonPositiveIncome — gross-доход должен быть > 0.
	ErrNonPositiveIncome = errors.New("gross income must be positive")

	// ErrNegativeDependents — количество иждивенцев не может быть < 0.
	ErrNegativeDependents = errors.New("dependents must not be negative")

	// ErrInvalidRegion — регион должен быть 1, 2, 3 или 4.
	ErrInvalidRegion = errors.New("region must be 1, 2, 3 or 4")
)

// Ошибки валидации политики.
var (
	// ErrEmptyBrackets — шкала PIT не содержит ни одной ступени.
	ErrEmptyBrackets = errors.New("policy has no PIT brackets")

	// ErrBracketOrder — ступени PIT должны идти по возрастанию лимита.
	ErrBracketOrder = errors.New("PIT brackets must be in ascending order")

	// ErrMissingRegion — в политике нет минимальной зарплаты для региона.
	ErrMissingRegion = errors.New("policy has no minimum wage for region")
)
