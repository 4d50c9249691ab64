// Package rotate implements time-based log file rotation with bounded
// retention: canonical naming for the active file, timestamped naming for
// rotated files, and a cleanup policy that keeps the newest N rotated files
// while never touching the one currently being written.
package rotate

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02-15-04"
)

// datePattern matches the trailing timestamp component of a log filename
// after its extension has been stripped: _YYYY-MM-DD, optionally followed
// by -HH-MM for a rotated file.
var datePattern = regexp.MustCompile(`^(.*)_(\d{4}-\d{2}-\d{2}(?:-\d{2}-\d{2})?)$`)

// CanonicalName builds the active-day filename: {prefix}_{YYYY-MM-DD}{ext}.
func CanonicalName(prefix string, date time.Time, ext string) string {
	return prefix + "_" + date.Format(dateLayout) + ext
}

// RotatedName builds the name a closed-out file is renamed to:
// {prefix}_{YYYY-MM-DD-HH-MM}{ext}. The timestamp is the rotation instant,
// so two rotations of the same stream within one minute produce the same
// string. That collision is accepted: the boundary fires at most once per
// day in normal operation, and only a forced restart can rotate faster.
func RotatedName(prefix string, ts time.Time, ext string) string {
	return prefix + "_" + ts.Format(stampLayout) + ext
}

// ExtractPrefix recovers the stable service prefix from a log filename.
// It strips the extension, then strictly matches a trailing
// _YYYY-MM-DD(-HH-MM) component. When the strict match fails it falls back
// to splitting off everything after the last underscore and treating that
// tail as the timestamp whether or not it parses as one. The fallback can
// misclassify a service name that itself ends in _<digits>; it is kept
// as-is because callers only apply ExtractPrefix to names this package
// generated. Returns false when the name contains no underscore at all.
func ExtractPrefix(filename string) (string, bool) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if m := datePattern.FindStringSubmatch(base); m != nil {
		return m[1], true
	}
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return "", false
	}
	return base[:i], true
}

// matchesStream reports whether filename is one of the stream's generated
// names: {prefix}_{timestamp}{ext} in canonical or rotated form. Unlike
// ExtractPrefix this never falls back: a name whose tail is not a strict
// timestamp is not a candidate and will never be deleted.
func matchesStream(filename, prefix, ext string) bool {
	if !strings.HasSuffix(filename, ext) {
		return false
	}
	m := datePattern.FindStringSubmatch(strings.TrimSuffix(filename, ext))
	return m != nil && m[1] == prefix
}
