package model

import "errors"

var (
	// ErrNoData is returned when a canonical table is missing or has no rows.
	ErrNoData = errors.New("no data")

	// ErrLoadFailed is returned when a dataset folder cannot be loaded.
	ErrLoadFailed = errors.New("load failed")

	// ErrInvalidFilter is returned when filter input is rejected. The caller's
	// current view is left untouched.
	ErrInvalidFilter = errors.New("invalid filter")
)
