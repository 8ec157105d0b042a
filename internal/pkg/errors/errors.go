package errors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalid              = errors.New("invalid")
	ErrBusy                 = errors.New("busy")
	ErrInternal             = errors.New("internal")
	ErrProviderUnavailable  = errors.New("embedding provider unavailable")
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrInsufficientData     = errors.New("insufficient data for analysis")
	ErrEmbeddingUnavailable = errors.New("query embedding unavailable")
)
