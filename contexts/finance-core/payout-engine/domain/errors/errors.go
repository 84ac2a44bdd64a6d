package errors

import "errors"

var (
	ErrInvalidPeriod          = errors.New("period must be a YYYY-MM label")
	ErrInvalidPoolPercent     = errors.New("pool percent must be between 1 and 100")
	ErrDistributionInProgress = errors.New("a distribution run for this period is already in progress")
	ErrInconsistentAllocation = errors.New("revenue total changed after allocation was computed")
	ErrTransferFailed         = errors.New("transfer failed")
)
