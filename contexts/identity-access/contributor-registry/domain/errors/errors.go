package errors

import "errors"

var (
	ErrInvalidHandle       = errors.New("contributor handle is required")
	ErrInvalidDestination  = errors.New("payout destination is required")
	ErrContributorNotFound = errors.New("contributor not found")
	ErrContributorExists   = errors.New("contributor already exists")
)
