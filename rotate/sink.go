package rotate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// Compile-time assertion: Sink is a superset of io.WriteCloser.
var _ io.WriteCloser = (Sink)(nil)

// Sink is the rotating output stream a logger writes through. It plugs
// into anything that takes an io.Writer or io.WriteCloser, with Rotate as
// the extra hook for forcing a rotation by hand. Implementations must be
// safe for concurrent use, and Write or Rotate after Close must return
// ErrClosed.
type Sink interface {
	// Write appends log bytes, rotating first when the implementation's
	// rotation condition has been met.
	Write(p []byte) (n int, err error)

	// Close closes the sink and releases its file handle.
	Close() error

	// Rotate closes the current file, renames it to its backup form, and
	// opens a fresh one.
	Rotate() error
}

var _ Sink = (*DailySink)(nil)

// Option configures a DailySink.
type Option func(*DailySink)

// WithExtension sets the filename extension, ".log" by default.
func WithExtension(ext string) Option {
	return func(s *DailySink) { s.ext = ext }
}

// WithFileMode sets the permission bits for created log files.
func WithFileMode(mode os.FileMode) Option {
	return func(s *DailySink) { s.mode = mode }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *DailySink) { s.now = now }
}

// WithOnError sets a callback for retention sweep failures, which are
// reported rather than returned so that housekeeping can never fail a
// write. The callback must not log back through the same sink: that would
// recurse.
func WithOnError(fn func(error)) Option {
	return func(s *DailySink) { s.onError = fn }
}

// DailySink owns the single active log file for one service stream. It
// rotates lazily on the first write after the midnight boundary, renames
// the closed file with the rotation instant, and sweeps rotated files
// beyond the retention count. One process is assumed to own the stream;
// no cross-process locking is attempted.
type DailySink struct {
	dir       string
	prefix    string
	ext       string
	retention int
	mode      os.FileMode
	now       func() time.Time
	onError   func(error)

	mu     sync.Mutex
	sched  *Scheduler
	file   *os.File
	active string
	closed bool
}

// NewDaily creates the log directory if needed, sweeps stale files left by
// previous runs, and opens the active file for today. The startup sweep is
// best-effort: its outcome goes to the OnError callback and never prevents
// the sink from opening. A directory that cannot be created is fatal.
func NewDaily(dir, prefix string, retention int, opts ...Option) (*DailySink, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if datePattern.MatchString(prefix) {
		return nil, ErrAmbiguousPrefix
	}

	s := &DailySink{
		dir:       dir,
		prefix:    prefix,
		ext:       ".log",
		retention: retention,
		mode:      0o644,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", s.dir, err)
	}

	start := s.now()
	s.sched = NewScheduler(start)
	s.active = CanonicalName(s.prefix, start, s.ext)

	// Clean up after previous runs, keeping the file we are about to open.
	if err := s.sweep(s.active); err != nil {
		s.report(err)
	}

	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// Write appends p to the active file, rotating first when the calendar
// date has changed since the last rotation.
func (s *DailySink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if now := s.now(); s.sched.ShouldRotate(now) {
		if err := s.rotate(now); err != nil {
			return 0, err
		}
	}
	return s.file.Write(p)
}

// Rotate forces a rotation at the current instant regardless of the day
// boundary.
func (s *DailySink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.rotate(s.now())
}

// Close closes the active file. Further Write or Rotate calls return
// ErrClosed.
func (s *DailySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.file.Close()
}

// ActiveFile returns the full path of the file currently open for
// appending.
func (s *DailySink) ActiveFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filepath.Join(s.dir, s.active)
}

// rotate closes and renames the active file, opens the next canonical one,
// and sweeps the retention window with the new active name protected.
// Callers hold s.mu. A failed sweep is reported, not returned: cleanup
// must never fail the write that triggered it.
func (s *DailySink) rotate(now time.Time) error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing log file %s: %w", s.active, err)
	}
	rotated := RotatedName(s.prefix, now, s.ext)
	if err := os.Rename(filepath.Join(s.dir, s.active), filepath.Join(s.dir, rotated)); err != nil {
		return fmt.Errorf("renaming log file %s: %w", s.active, err)
	}

	s.sched.Advance(now)
	s.active = CanonicalName(s.prefix, now, s.ext)
	if err := s.open(); err != nil {
		return err
	}

	if err := s.sweep(s.active); err != nil {
		s.report(err)
	}
	return nil
}

// open creates or appends to the active file. Callers hold s.mu, or run
// before the sink is shared.
func (s *DailySink) open() error {
	f, err := os.OpenFile(filepath.Join(s.dir, s.active), os.O_CREATE|os.O_WRONLY|os.O_APPEND, s.mode)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", s.active, err)
	}
	s.file = f
	return nil
}

// sweep re-reads the directory and removes rotated files beyond the
// retention count, keeping mustKeep unconditionally. The candidate set is
// rebuilt from disk on every call, never cached. Per-file removal failures
// are collected and returned together; one stubborn file does not stop the
// rest of the batch.
func (s *DailySink) sweep(mustKeep string) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading log directory %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	var errs error
	for _, name := range FilesToDelete(names, s.prefix, s.ext, s.retention, mustKeep) {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (s *DailySink) report(err error) {
	if s.onError != nil && err != nil {
		s.onError(err)
	}
}
