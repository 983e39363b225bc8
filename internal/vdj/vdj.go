// Package vdj keeps a VirtualDJ database.xml in step with renamed files.
//
// Every Song element's FilePath whose base name was renamed is pointed at
// the new name. The database is copied to a timestamped backup before
// anything is written, and the new document replaces the old one through
// a rename so a crash never leaves a half-written file.
package vdj

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"

	"github.com/llehouerou/tigertag/internal/logging"
	"github.com/llehouerou/tigertag/internal/rename"
)

var (
	// ErrIndexNotFound is returned when the database file does not exist.
	ErrIndexNotFound = errors.New("virtualdj database not found")
	// ErrIndexBusy is returned when another process holds the database lock.
	ErrIndexBusy = errors.New("virtualdj database is locked by another process")
	// ErrIndexParse is returned for a database that is not valid XML.
	ErrIndexParse = errors.New("parse virtualdj database")
	// ErrIndexWrite is returned when the updated database could not be saved.
	ErrIndexWrite = errors.New("write virtualdj database")
)

const (
	songElement    = "Song"
	filePathAttr   = "FilePath"
	backupLayout   = "20060102_150405"
	lockFileSuffix = ".lock"
)

// Request describes one synchronization.
type Request struct {
	DatabasePath string
	// Folder is the folder the renames happened in. Matching is by base
	// name only; the folder is kept for logging.
	Folder  string
	Renames []rename.Record
}

// Result reports what a synchronization did.
type Result struct {
	Updated    int
	BackupPath string
}

// Syncer rewrites database files.
type Syncer struct {
	log *slog.Logger
	now func() time.Time
}

// NewSyncer creates a Syncer. A nil logger discards output.
func NewSyncer(logger *slog.Logger) *Syncer {
	return &Syncer{
		log: logging.NewComponentLogger(logger, "vdj"),
		now: time.Now,
	}
}

// Sync applies req with a default Syncer.
func Sync(req Request) (Result, error) {
	return NewSyncer(nil).Sync(req)
}

// Sync rewrites the FilePath of every song whose base name appears in
// req.Renames. Nothing is touched when there is nothing to rename.
func (s *Syncer) Sync(req Request) (Result, error) {
	var res Result

	info, err := os.Stat(req.DatabasePath)
	if errors.Is(err, os.ErrNotExist) {
		return res, fmt.Errorf("%w: %s", ErrIndexNotFound, req.DatabasePath)
	}
	if err != nil {
		return res, fmt.Errorf("stat database: %w", err)
	}
	if len(req.Renames) == 0 {
		return res, nil
	}

	log := s.log.With("database", req.DatabasePath, "folder", req.Folder)

	lock := flock.New(req.DatabasePath + lockFileSuffix)
	ok, err := lock.TryLock()
	if err != nil {
		return res, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return res, ErrIndexBusy
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("failed to release database lock", logging.Error(err))
			return
		}
		if err := os.Remove(lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to remove database lock file", logging.Error(err))
		}
	}()

	data, err := os.ReadFile(req.DatabasePath)
	if err != nil {
		return res, fmt.Errorf("read database: %w", err)
	}

	res.BackupPath, err = s.backup(req.DatabasePath, data)
	if err != nil {
		return res, fmt.Errorf("backup database: %w", err)
	}
	log.Info("database backed up",
		"backup", res.BackupPath,
		"size", humanize.IBytes(uint64(len(data))))

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return res, fmt.Errorf("%w: %w", ErrIndexParse, err)
	}

	res.Updated = rewrite(doc, renameMap(req.Renames))
	if res.Updated == 0 {
		log.Info("no database entries to update", "renames", len(req.Renames))
		return res, nil
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return res, fmt.Errorf("%w: %w", ErrIndexWrite, err)
	}
	if err := replaceFile(req.DatabasePath, buf.Bytes(), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("%w: %w", ErrIndexWrite, err)
	}

	log.Info("database updated", "updated", res.Updated)
	return res, nil
}

// renameMap maps lowercased old base names to new base names.
func renameMap(renames []rename.Record) map[string]string {
	m := make(map[string]string, len(renames))
	for _, r := range renames {
		if r.IsZero() {
			continue
		}
		m[strings.ToLower(r.Old)] = r.New
	}
	return m
}

// rewrite updates matching FilePath attributes in place and returns how
// many changed.
func rewrite(doc *etree.Document, renames map[string]string) int {
	updated := 0
	for _, song := range doc.FindElements("//" + songElement) {
		attr := song.SelectAttr(filePathAttr)
		if attr == nil {
			continue
		}
		dir, base := splitPath(attr.Value)
		newBase, ok := renames[strings.ToLower(base)]
		if !ok {
			continue
		}
		attr.Value = dir + newBase
		updated++
	}
	return updated
}

// splitPath splits a database path on either separator. The directory is
// returned with forward slashes and its trailing separator.
func splitPath(p string) (dir, base string) {
	i := strings.LastIndexAny(p, `/\`)
	if i < 0 {
		return "", p
	}
	return strings.ReplaceAll(p[:i+1], `\`, "/"), p[i+1:]
}

// backup writes data next to path as <stem>.backup_<timestamp>.xml. A
// numeric suffix is added when that name is taken.
func (s *Syncer) backup(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stamp := stem + ".backup_" + s.now().Format(backupLayout)

	for n := 0; ; n++ {
		name := stamp + ".xml"
		if n > 0 {
			name = fmt.Sprintf("%s_%d.xml", stamp, n)
		}
		target := filepath.Join(dir, name)

		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return target, nil
	}
}

// replaceFile writes data to a temp file beside path and renames it over
// path.
func replaceFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
