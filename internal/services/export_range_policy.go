package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cycletrack/internal/apperr"
)

var (
	ErrExportFromDateInvalid = fmt.Errorf("%w: export invalid from date", apperr.ErrValidation)
	ErrExportToDateInvalid   = fmt.Errorf("%w: export invalid to date", apperr.ErrValidation)
	ErrExportRangeInvalid    = fmt.Errorf("%w: export invalid range", apperr.ErrValidation)
)

// ParseExportRange parses optional YYYY-MM-DD bounds. Empty values leave a bound open.
func ParseExportRange(rawFrom string, rawTo string) (*time.Time, *time.Time, error) {
	from, err := parseOptionalDay(rawFrom)
	if err != nil {
		return nil, nil, ErrExportFromDateInvalid
	}
	to, err := parseOptionalDay(rawTo)
	if err != nil {
		return nil, nil, ErrExportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}

func parseOptionalDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := ParseDay(raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
