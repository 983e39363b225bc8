// Package retag runs the match, rename and tag pipeline over one folder.
//
// Files are processed one at a time in name order. A failing file is
// recorded in the report and the run moves on; only the operator aborting
// or the context being cancelled stops it early.
package retag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/tigertag/internal/catalogue"
	"github.com/llehouerou/tigertag/internal/logging"
	"github.com/llehouerou/tigertag/internal/match"
	"github.com/llehouerou/tigertag/internal/metadata"
	"github.com/llehouerou/tigertag/internal/rename"
	"github.com/llehouerou/tigertag/internal/tags"
)

// DefaultRetryDelay is the wait before the single retry of a locked file.
const DefaultRetryDelay = 500 * time.Millisecond

// ErrFileLocked wraps a rename or tag write that still hit a locked file
// after the retry.
var ErrFileLocked = errors.New("file is locked by another process")

// ErrFilePanicked marks a file whose processing panicked.
var ErrFilePanicked = errors.New("unexpected failure while processing file")

// Releaser is asked to let go of a file (stop a preview, close a handle)
// before the file is renamed or rewritten.
type Releaser interface {
	Release(path string) error
}

// ReleaserFunc adapts a function to Releaser.
type ReleaserFunc func(path string) error

func (f ReleaserFunc) Release(path string) error { return f(path) }

type noopReleaser struct{}

func (noopReleaser) Release(string) error { return nil }

// Options configures a Tagger. Zero values select defaults.
type Options struct {
	Template   rename.Template
	Resolver   match.Resolver
	RetryDelay time.Duration
	Releaser   Releaser
	Logger     *slog.Logger
}

// Result is the outcome for one file.
type Result struct {
	Path    string
	NewPath string
	State   State
	Entry   *catalogue.Entry
	Score   int
	Rename  rename.Record
	Err     error
}

// Report summarizes a run. Results and Renames are in processing order.
type Report struct {
	Folder  string
	Results []Result
	Renames []rename.Record

	Tagged      int
	Skipped     int
	NoCandidate int
	Unsupported int
	Failed      int
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	if !res.Rename.IsZero() {
		r.Renames = append(r.Renames, res.Rename)
	}
	switch res.State {
	case StateLogged:
		r.Tagged++
	case StateSkipped:
		r.Skipped++
	case StateNoCandidate:
		r.NoCandidate++
	case StateUnsupported:
		r.Unsupported++
	case StateFailed:
		r.Failed++
	}
}

// Tagger retags the files of a folder against a catalogue.
type Tagger struct {
	cat        *catalogue.Catalogue
	decider    match.Decider
	resolver   match.Resolver
	template   rename.Template
	retryDelay time.Duration
	releaser   Releaser
	log        *slog.Logger

	locked func(error) bool
	sleep  func(time.Duration)
	write  func(string, tags.Fields) error
}

// New creates a Tagger. The catalogue is only read.
func New(cat *catalogue.Catalogue, decider match.Decider, opts Options) *Tagger {
	t := &Tagger{
		cat:        cat,
		decider:    decider,
		resolver:   opts.Resolver,
		template:   opts.Template,
		retryDelay: opts.RetryDelay,
		releaser:   opts.Releaser,
		log:        logging.NewComponentLogger(opts.Logger, "retag"),
		locked:     isLocked,
		sleep:      time.Sleep,
		write:      tags.Write,
	}
	if t.template.Name() == "" {
		t.template = rename.DefaultTemplate()
	}
	if t.retryDelay <= 0 {
		t.retryDelay = DefaultRetryDelay
	}
	if t.releaser == nil {
		t.releaser = noopReleaser{}
	}
	return t
}

// Run processes every file of folder. The report holds everything done so
// far even when an error is returned: ctx cancellation is checked between
// files, and a decider returning match.ErrAborted ends the run.
func (t *Tagger) Run(ctx context.Context, folder string) (*Report, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	report := &Report{Folder: folder}
	log := t.log.With("folder", folder)
	log.Info("retag started", "entries", len(entries), "template", t.template.Name())

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(folder, name)
		if !tags.IsSupported(path) {
			log.Debug("unsupported file", "file", name)
			report.add(Result{
				Path:    path,
				NewPath: path,
				State:   StateUnsupported,
				Err:     fmt.Errorf("%w: %s", tags.ErrUnsupportedFormat, filepath.Ext(name)),
			})
			continue
		}

		res, err := t.safeProcessFile(path, log.With("file", name))
		if err != nil {
			log.Info("retag aborted", "file", name)
			return report, err
		}
		report.add(res)
	}

	log.Info("retag finished",
		"tagged", report.Tagged,
		"skipped", report.Skipped,
		"no_candidate", report.NoCandidate,
		"unsupported", report.Unsupported,
		"failed", report.Failed,
		"renames", len(report.Renames))
	return report, nil
}

// safeProcessFile runs processFile, turning a panic inside a tag library
// into a failure of that file. A rename done before the panic stays in the
// result.
func (t *Tagger) safeProcessFile(path string, log *slog.Logger) (res Result, err error) {
	res = Result{Path: path, NewPath: path, State: StateDiscovered}
	defer func() {
		if r := recover(); r != nil {
			res.State = StateFailed
			res.Err = fmt.Errorf("%w: %v", ErrFilePanicked, r)
			err = nil
			log.Error("file failed", "panic", r)
		}
	}()
	err = t.processFile(&res, log)
	return res, err
}

// processFile takes one file through the pipeline, recording progress in
// res. The returned error is only set when the whole run must stop.
func (t *Tagger) processFile(res *Result, log *slog.Logger) error {
	path := res.Path
	fail := func(err error) error {
		res.State = StateFailed
		res.Err = err
		log.Error("file failed", logging.Error(err))
		return nil
	}

	observed, err := tags.Read(path)
	if err != nil {
		return fail(fmt.Errorf("read tags: %w", err))
	}

	file := match.FileContext{
		Path:  path,
		Title: observed.Title,
		Album: observed.Album,
		Date:  observed.Date,
	}
	out, err := t.resolver.Choose(file, observed.Title, t.cat, t.decider)
	switch {
	case errors.Is(err, match.ErrNoCandidate):
		res.State = StateNoCandidate
		res.Err = err
		log.Info("no candidate", "title", observed.Title, "manual_title", out.ManualTitle)
		return nil
	case errors.Is(err, match.ErrAborted):
		return err
	case err != nil:
		return fail(fmt.Errorf("match: %w", err))
	}

	res.State = StateMatched
	if out.Status == match.StatusSkipped {
		res.State = StateSkipped
		log.Info("skipped by operator", "candidates", len(out.Candidates))
		return nil
	}

	res.State = StateSelected
	res.Entry = out.Chosen.Entry
	res.Score = out.Chosen.Score
	rec := metadata.Synthesize(out.Chosen.Entry)
	log.Debug("candidate selected", "entry", res.Entry.ID, "score", res.Score)

	if err := t.releaser.Release(path); err != nil {
		log.Warn("release file", logging.Error(err))
	}

	err = t.retry(log, func() error {
		var rerr error
		res.Rename, rerr = rename.Apply(path, rec, t.template)
		return rerr
	})
	if err != nil {
		return fail(fmt.Errorf("rename: %w", err))
	}
	if !res.Rename.IsZero() {
		res.NewPath = filepath.Join(filepath.Dir(path), res.Rename.New)
		log.Info("renamed", "old", res.Rename.Old, "new", res.Rename.New)
	}
	res.State = StateRenamed

	// A failed tag write keeps the rename: it is already in res.Rename.
	err = t.retry(log, func() error {
		return t.write(res.NewPath, Fields(rec))
	})
	if err != nil {
		return fail(fmt.Errorf("write tags: %w", err))
	}
	res.State = StateTagWritten

	log.Info("tagged", "path", res.NewPath, "entry", res.Entry.ID)
	res.State = StateLogged
	return nil
}

// retry runs op, and once more after the retry delay if it failed on a
// locked file.
func (t *Tagger) retry(log *slog.Logger, op func() error) error {
	err := op()
	if err == nil || !t.locked(err) {
		return err
	}
	log.Warn("file locked, retrying", "delay", t.retryDelay, logging.Error(err))
	t.sleep(t.retryDelay)

	err = op()
	if err != nil && t.locked(err) {
		return fmt.Errorf("%w: %w", ErrFileLocked, err)
	}
	return err
}

// Fields converts a metadata record into the tag payload.
func Fields(rec *metadata.Record) tags.Fields {
	return tags.Fields{
		Title:    rec.Title(),
		Artist:   rec.Artist(),
		Genre:    rec.Genre(),
		Date:     rec.Date().TagValue(),
		Composer: rec.Composer(),
		Grouping: rec.Grouping(),
		Label:    rec.Label(),
		Comment:  rec.Comment(),
	}
}
