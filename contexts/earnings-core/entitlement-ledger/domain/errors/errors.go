package errors

import "errors"

var (
	ErrInvalidSaleInput       = errors.New("sale event requires a transaction id and a positive amount")
	ErrInvalidSessionInput    = errors.New("support session requires a contributor handle")
	ErrInvalidPeriod          = errors.New("period must be a YYYY-MM label")
	ErrInvalidAmount          = errors.New("entitlement amount must be positive")
	ErrInvalidCategory        = errors.New("unknown entitlement category")
	ErrDuplicateEntitlement   = errors.New("entitlement already recorded for this source")
	ErrSaleNotFound           = errors.New("sale event not found")
	ErrSessionNotFound        = errors.New("support session not found")
	ErrSessionAlreadyClosed   = errors.New("support session is already closed")
	ErrSessionNotClosed       = errors.New("support session has not been closed")
	ErrSessionAlreadyApproved = errors.New("support session is already approved")
)
