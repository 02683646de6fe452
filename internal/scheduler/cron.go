package scheduler

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
)

// defaultCleanupCron — расписание очистки по умолчанию: каждый день в 03:00.
const defaultCleanupCron = "0 3 * * *"

// cronParser — парсер cron-выражений (пятипольный формат).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CleanupSchedule возвращает расписание очистки из CLEANUP_CRON.
// Пустая переменная — дефолтное расписание.
func CleanupSchedule() (cron.Schedule, error) {
	expr := os.Getenv("CLEANUP_CRON")
	if expr == "" {
		expr = defaultCleanupCron
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}

	return schedule, nil
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
