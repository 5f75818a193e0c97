package audit

import "errors"

var (
	// ErrSinkClosed is returned when writing to a closed sink.
	ErrSinkClosed = errors.New("audit: sink closed")

	// ErrSinkUnavailable indicates the backing store rejected the write.
	ErrSinkUnavailable = errors.New("audit: sink unavailable")
)
