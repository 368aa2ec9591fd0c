package poolgo

import "errors"

var (
	// ErrInvalidBatchSize is returned by New when the configured batch size
	// is not positive.
	ErrInvalidBatchSize = errors.New("poolgo: batch size must be positive")

	// ErrZeroSizedType is returned by New when the element type has zero
	// size. Zero-sized values need no storage and cannot be given distinct
	// slot addresses.
	ErrZeroSizedType = errors.New("poolgo: element type has zero size")

	// ErrClosed is returned by Insert after the pool has been closed.
	ErrClosed = errors.New("poolgo: pool is closed")

	// ErrHandlesOutstanding is returned by Close while handles are still
	// live. The pool stays usable; release the handles and close again.
	ErrHandlesOutstanding = errors.New("poolgo: handles still outstanding")
)
