package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrJobFailed        = errors.New("ingestion job failed")
	ErrJobCancelled     = errors.New("ingestion job cancelled")
	ErrDeadlineExceeded = errors.New("polling deadline exceeded")
	ErrNoDocument       = errors.New("no document configured")
	ErrUnauthorized     = errors.New("unauthorized")
)
