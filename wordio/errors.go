package wordio

import "errors"

var (
	ErrNotStarted        = errors.New("io has not been started")
	ErrOutOfWindow       = errors.New("access is outside of the io window")
	ErrAccessTooWide     = errors.New("access is wider than 64 bits")
	ErrDataWidth         = errors.New("data width must be 8, 16, 32 or 64 bits")
	ErrBulkWidth         = errors.New("bulk width must be a supported width no smaller than the data width")
	ErrUnaligned         = errors.New("offset is not aligned to the data width")
	ErrWindowSize        = errors.New("io window extends past the end of the resource")
	ErrNoSize            = errors.New("io window size is zero")
	ErrMap               = errors.New("failed to open or map resource")
	ErrDataWidthMismatch = errors.New("region data width differs from the io data width")
)
