package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/metrics"
)

// translateError maps driver errors onto the apperr sentinels: missing rows become
// ErrNotFound, constraint violations ErrStoreWrite and everything else ErrStoreUnavailable.
func translateError(m *metrics.Metrics, op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated), isConstraintError(err):
		m.RecordStoreError("write")
		return fmt.Errorf("%s: %w: %v", op, apperr.ErrStoreWrite, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		m.RecordStoreError("unavailable")
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrStoreUnavailable, err)
	default:
		m.RecordStoreError("unavailable")
		return fmt.Errorf("%s: %w: %v", op, apperr.ErrStoreUnavailable, err)
	}
}

func isConstraintError(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "constraint failed") || strings.Contains(message, "constraint violation")
}
