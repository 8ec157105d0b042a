package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrUnauthorized
	ErrNotFound
	ErrInvalid
	ErrBusy
	ErrInternal
	ErrProviderUnavailable
	ErrUnsupportedFormat
	ErrInsufficientData
	ErrEmbeddingUnavailable
)
