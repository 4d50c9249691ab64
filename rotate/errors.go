package rotate

import "errors"

var (
	// ErrClosed is returned by Write and Rotate after the sink has been
	// closed.
	ErrClosed = errors.New("rotate: sink is closed")

	// ErrEmptyPrefix is returned when no service prefix is supplied.
	ErrEmptyPrefix = errors.New("rotate: prefix is required")

	// ErrAmbiguousPrefix is returned when the prefix itself ends in the
	// rotation timestamp pattern, which would make prefix extraction
	// ambiguous.
	ErrAmbiguousPrefix = errors.New("rotate: prefix ends in a timestamp pattern")

	// ErrEmptyFilename is returned when no filename is supplied for a
	// size-based sink.
	ErrEmptyFilename = errors.New("rotate: filename is required")
)
