package textextract

import "errors"

var (
	// ErrPdfInvalid is returned when a PDF is absent, zero-length,
	// password-protected, or contains no extractable text.
	ErrPdfInvalid = errors.New("pdf invalid")
	// ErrFetchFailed is returned on a non-2xx response, timeout, or
	// size overrun while fetching a URL.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrInsufficientContent is returned when stripped HTML text falls
	// below the minimum content length.
	ErrInsufficientContent = errors.New("insufficient content")
)
