package client

import "errors"

var (
	ErrUnavailable    = errors.New("jar service unavailable")
	ErrInvalidJarLink = errors.New("invalid jar link")
)
