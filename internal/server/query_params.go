package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateOnlyLayout = "2006-01-02"

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	return &parsed, nil
}

func parseBoolDefault(value string, def bool) (bool, error) {
	parsed, err := parseOptionalBool(value)
	if err != nil {
		return def, err
	}
	if parsed == nil {
		return def, nil
	}
	return *parsed, nil
}

func parseIntDefault(value string, def int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return def, ErrInvalidRequest
	}
	return parsed, nil
}

func parseOptionalDecimal(value string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	return &parsed, nil
}

// parseOptionalTime accepts RFC3339 timestamps or bare dates. A bare date used
// as a range end covers the whole day.
func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(dateOnlyLayout, trimmed)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	if endOfDay {
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	} else {
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	}
	return &parsed, nil
}
