package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var _ Sink = (*SizeSink)(nil)

// Size-based sink defaults.
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30
)

// SizeOption configures a SizeSink.
type SizeOption func(*lumberjack.Logger)

// WithMaxSizeMB sets the file size in megabytes that triggers a rotation.
func WithMaxSizeMB(mb int) SizeOption {
	return func(l *lumberjack.Logger) { l.MaxSize = mb }
}

// WithMaxBackups sets how many rotated files to retain.
func WithMaxBackups(n int) SizeOption {
	return func(l *lumberjack.Logger) { l.MaxBackups = n }
}

// WithMaxAgeDays sets how many days rotated files are retained.
func WithMaxAgeDays(days int) SizeOption {
	return func(l *lumberjack.Logger) { l.MaxAge = days }
}

// WithCompress enables gzip compression of rotated files.
func WithCompress(compress bool) SizeOption {
	return func(l *lumberjack.Logger) { l.Compress = compress }
}

// SizeSink rotates on file size rather than the day boundary, delegating to
// lumberjack. It exists for streams that grow too fast for daily rotation
// to bound disk use. The backup naming scheme is lumberjack's
// name-timestamp.ext form, not the {prefix}_{date} form used by DailySink.
type SizeSink struct {
	mu     sync.Mutex
	lj     *lumberjack.Logger
	closed bool
}

// NewSize creates a size-based sink writing to filename, creating the
// parent directory if needed.
func NewSize(filename string, opts ...SizeOption) (*SizeSink, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	lj := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		LocalTime:  true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(lj)
		}
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", filepath.Dir(filename), err)
	}
	return &SizeSink{lj: lj}, nil
}

// Write appends p, rotating when the size limit is exceeded.
func (s *SizeSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.lj.Write(p)
}

// Close closes the sink.
func (s *SizeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.lj.Close()
}

// Rotate forces a rotation.
func (s *SizeSink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.lj.Rotate()
}
