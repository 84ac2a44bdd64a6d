package errors

import "errors"

var (
	ErrInvalidPeriod = errors.New("period must be a YYYY-MM label")
	ErrInvalidAmount = errors.New("revenue amount must be positive")
)
