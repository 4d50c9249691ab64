package rotate

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Set(t time.Time) { c.t = t }

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("old\n"), 0o644))
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestNewDailyStartupSweep(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"svc_2024-01-01.log",
		"svc_2024-01-02.log",
		"svc_2024-01-03.log",
		"svc_2024-01-04.log",
		"svc_2024-01-05.log",
		"other_2024-01-01.log",
		"svc_notes.log",
	} {
		touch(t, dir, name)
	}

	clock := &fakeClock{t: time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)}
	s, err := NewDaily(dir, "svc", 3, WithNow(clock.Now))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{
		"other_2024-01-01.log",
		"svc_2024-01-03.log",
		"svc_2024-01-04.log",
		"svc_2024-01-05.log",
		"svc_2024-01-06.log",
		"svc_notes.log",
	}, dirNames(t, dir))
	assert.Equal(t, filepath.Join(dir, "svc_2024-01-06.log"), s.ActiveFile())
}

func TestNewDailySweepIdempotent(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"svc_2024-01-03.log", "svc_2024-01-04.log", "svc_2024-01-05.log"} {
		touch(t, dir, name)
	}
	clock := &fakeClock{t: time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)}

	s, err := NewDaily(dir, "svc", 3, WithNow(clock.Now))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	after := dirNames(t, dir)

	// Nothing changed on disk, so a second startup sweep deletes nothing.
	s, err = NewDaily(dir, "svc", 3, WithNow(clock.Now))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, after, dirNames(t, dir))
}

func TestDailySinkRotatesOnDayBoundary(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 1, 6, 23, 50, 0, 0, time.UTC)}

	s, err := NewDaily(dir, "svc", 3, WithNow(clock.Now))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Write([]byte("before midnight\n"))
	require.NoError(t, err)

	// Still the same calendar day: no rotation.
	clock.Set(time.Date(2024, 1, 6, 23, 59, 59, 0, time.UTC))
	_, err = s.Write([]byte("still before\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"svc_2024-01-06.log"}, dirNames(t, dir))

	// First write after the boundary rotates lazily. The closed file is
	// labeled with the rotation instant.
	clock.Set(time.Date(2024, 1, 7, 0, 5, 30, 0, time.UTC))
	_, err = s.Write([]byte("after midnight\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"svc_2024-01-07-00-05.log", "svc_2024-01-07.log"}, dirNames(t, dir))

	old, err := os.ReadFile(filepath.Join(dir, "svc_2024-01-07-00-05.log"))
	require.NoError(t, err)
	assert.Equal(t, "before midnight\nstill before\n", string(old))

	active, err := os.ReadFile(filepath.Join(dir, "svc_2024-01-07.log"))
	require.NoError(t, err)
	assert.Equal(t, "after midnight\n", string(active))
}

func TestDailySinkManualRotateSameDay(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 1, 6, 13, 45, 0, 0, time.UTC)}

	s, err := NewDaily(dir, "svc", 3, WithNow(clock.Now))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Write([]byte("first run\n"))
	require.NoError(t, err)
	require.NoError(t, s.Rotate())

	_, err = s.Write([]byte("second run\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"svc_2024-01-06-13-45.log", "svc_2024-01-06.log"}, dirNames(t, dir))
	assert.Equal(t, filepath.Join(dir, "svc_2024-01-06.log"), s.ActiveFile())
}

func TestDailySinkZeroRetentionAfterRotate(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)}

	s, err := NewDaily(dir, "svc", 0, WithNow(clock.Now))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Write([]byte("day one\n"))
	require.NoError(t, err)

	clock.Set(time.Date(2024, 1, 7, 8, 0, 0, 0, time.UTC))
	_, err = s.Write([]byte("day two\n"))
	require.NoError(t, err)

	// The rotated file fell out of the (empty) retention window; only the
	// active file survives.
	assert.Equal(t, []string{"svc_2024-01-07.log"}, dirNames(t, dir))
}

func TestDailySinkBestEffortSweep(t *testing.T) {
	dir := t.TempDir()
	// A directory wearing a log filename cannot be os.Remove'd while it has
	// children; the sweep must report that and still delete the real file.
	blocked := filepath.Join(dir, "svc_2024-01-01.log")
	require.NoError(t, os.Mkdir(blocked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocked, "child"), []byte("x"), 0o644))
	touch(t, dir, "svc_2024-01-02.log")

	var swept []error
	clock := &fakeClock{t: time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)}
	s, err := NewDaily(dir, "svc", 0,
		WithNow(clock.Now),
		WithOnError(func(err error) { swept = append(swept, err) }),
	)
	require.NoError(t, err)
	defer s.Close()

	require.Len(t, swept, 1)
	assert.Error(t, swept[0])
	assert.Equal(t, []string{"svc_2024-01-01.log", "svc_2024-01-06.log"}, dirNames(t, dir))
}

func TestDailySinkClosed(t *testing.T) {
	s, err := NewDaily(t.TempDir(), "svc", 3)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Write([]byte("late\n"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Rotate(), ErrClosed)
	assert.ErrorIs(t, s.Close(), ErrClosed)
}

func TestNewDailyRejectsBadPrefix(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDaily(dir, "", 3)
	assert.ErrorIs(t, err, ErrEmptyPrefix)

	_, err = NewDaily(dir, "svc_2024-01-01", 3)
	assert.ErrorIs(t, err, ErrAmbiguousPrefix)
}

func TestDailySinkCustomExtension(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)}

	s, err := NewDaily(dir, "svc", 3, WithNow(clock.Now), WithExtension(".txt"))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{"svc_2024-01-06.txt"}, dirNames(t, dir))
}
