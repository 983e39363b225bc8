// Package rename computes canonical filenames for tagged files and moves
// files to them without overwriting anything.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/tigertag/internal/metadata"
)

// Record is one rename, as base names. The zero Record means the file
// kept its name.
type Record struct {
	Old string
	New string
}

func (r Record) IsZero() bool {
	return r.Old == "" && r.New == ""
}

// Target returns the canonical path for the file at existing: same
// directory, slugified stem, lowercased extension. ok is false when the
// file already has that name. When another file holds the name, " (N)"
// is appended with N counting from 1; a candidate equal to existing ends
// the search. The returned path never names an unrelated existing file.
func Target(existing string, rec *metadata.Record, t Template) (string, bool) {
	dir := filepath.Dir(existing)
	ext := strings.ToLower(filepath.Ext(existing))
	stem := Slugify(t.Stem(rec))

	candidate := filepath.Join(dir, stem+ext)
	for n := 1; ; n++ {
		if samePath(existing, candidate) {
			return existing, false
		}
		if !occupied(candidate) {
			return candidate, true
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
}

// Apply renames the file at existing to its Target. The zero Record is
// returned when no rename was needed.
func Apply(existing string, rec *metadata.Record, t Template) (Record, error) {
	target, ok := Target(existing, rec, t)
	if !ok {
		return Record{}, nil
	}
	if err := os.Rename(existing, target); err != nil {
		return Record{}, err
	}
	return Record{Old: filepath.Base(existing), New: filepath.Base(target)}, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && strings.EqualFold(absA, absB) {
		return true
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// occupied treats anything but a clean "does not exist" as taken.
func occupied(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}
