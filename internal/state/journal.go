package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/tigertag/internal/db"
	"github.com/llehouerou/tigertag/internal/rename"
)

// ErrRunNotFound is returned when a journal lookup finds no run.
var ErrRunNotFound = errors.New("run not found")

// Run is one folder run recorded in the journal.
type Run struct {
	ID          string
	Folder      string
	Template    string
	StartedAt   time.Time
	FinishedAt  time.Time
	Tagged      int
	Skipped     int
	Failed      int
	SyncedAt    *time.Time
	Renames     []rename.Record
	RenameCount int // also set by ListRuns, which leaves Renames nil
}

// SaveRun stores run with its rename log. An empty ID is replaced by a
// fresh uuid; the stored ID is returned.
func (m *Manager) SaveRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	err := db.WithTx(m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, folder, template, started_at, finished_at, tagged, skipped, failed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, run.Folder, run.Template, run.StartedAt.Unix(), run.FinishedAt.Unix(),
			run.Tagged, run.Skipped, run.Failed)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for i, r := range run.Renames {
			_, err := tx.Exec(`
				INSERT INTO renames (run_id, position, old_name, new_name)
				VALUES (?, ?, ?, ?)
			`, run.ID, i, r.Old, r.New)
			if err != nil {
				return fmt.Errorf("insert rename %q: %w", r.Old, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// GetRun returns the run with the given id, renames included.
func (m *Manager) GetRun(id string) (*Run, error) {
	row := m.db.QueryRow(`
		SELECT id, folder, template, started_at, finished_at, tagged, skipped, failed, synced_at
		FROM runs WHERE id = ?
	`, id)
	return m.loadRun(row)
}

// LatestRun returns the most recently started run.
func (m *Manager) LatestRun() (*Run, error) {
	row := m.db.QueryRow(`
		SELECT id, folder, template, started_at, finished_at, tagged, skipped, failed, synced_at
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1
	`)
	return m.loadRun(row)
}

// ListRuns returns runs newest first, with RenameCount set but without
// the renames themselves.
func (m *Manager) ListRuns() ([]Run, error) {
	rows, err := m.db.Query(`
		SELECT r.id, r.folder, r.template, r.started_at, r.finished_at,
		       r.tagged, r.skipped, r.failed, r.synced_at, COUNT(n.position)
		FROM runs r
		LEFT JOIN renames n ON n.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			started int64
			ended   int64
			synced  sql.NullInt64
			count   int
		)
		if err := rows.Scan(&run.ID, &run.Folder, &run.Template, &started, &ended,
			&run.Tagged, &run.Skipped, &run.Failed, &synced, &count); err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(started, 0)
		run.FinishedAt = time.Unix(ended, 0)
		run.SyncedAt = unixPtr(synced)
		run.RenameCount = count
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MarkSynced records that the run's renames were applied to the external index.
func (m *Manager) MarkSynced(id string, at time.Time) error {
	res, err := m.db.Exec(`UPDATE runs SET synced_at = ? WHERE id = ?`, at.Unix(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (m *Manager) loadRun(row *sql.Row) (*Run, error) {
	var (
		run     Run
		started int64
		ended   int64
		synced  sql.NullInt64
	)
	err := row.Scan(&run.ID, &run.Folder, &run.Template, &started, &ended,
		&run.Tagged, &run.Skipped, &run.Failed, &synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(started, 0)
	run.FinishedAt = time.Unix(ended, 0)
	run.SyncedAt = unixPtr(synced)

	rows, err := m.db.Query(`
		SELECT old_name, new_name FROM renames
		WHERE run_id = ? ORDER BY position
	`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r rename.Record
		if err := rows.Scan(&r.Old, &r.New); err != nil {
			return nil, err
		}
		run.Renames = append(run.Renames, r)
	}
	run.RenameCount = len(run.Renames)
	return &run, rows.Err()
}

func unixPtr(n sql.NullInt64) *time.Time {
	v := db.NullInt64ToPtr(n)
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0)
	return &t
}
