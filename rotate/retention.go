package rotate

import "sort"

// FilesToDelete computes which of the candidate filenames should be removed
// so that at most retention rotated files remain for the given stream.
// mustKeep (the active file) is excluded before the retention window is
// applied, so it survives even when retention is 0 and even when it would
// sort as the oldest name. A negative retention is normalized to 0 rather
// than treated as unlimited; that is a misconfiguration guard, not an
// error. The function is pure: it reads nothing from disk and deletes
// nothing, the caller owns the actual removal.
func FilesToDelete(candidates []string, prefix, ext string, retention int, mustKeep string) []string {
	if retention < 0 {
		retention = 0
	}

	matched := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if name == mustKeep {
			continue
		}
		if matchesStream(name, prefix, ext) {
			matched = append(matched, name)
		}
	}
	if len(matched) <= retention {
		return nil
	}

	// The timestamp formats are fixed-width and zero-padded, so plain
	// lexicographic order on the full name is chronological. The deletable
	// tail is the front of the sorted slice.
	sort.Strings(matched)
	return matched[:len(matched)-retention]
}
