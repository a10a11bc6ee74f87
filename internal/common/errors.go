package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Storage configuration errors.
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)
