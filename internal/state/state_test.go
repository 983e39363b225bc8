package state

import (
	"errors"
	"testing"
	"time"

	"github.com/llehouerou/tigertag/internal/rename"
)

// setupTestManager opens an in-memory database with the schema initialized.
func setupTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := OpenMemory()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/tigertag.db"

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	var version int
	if err := m.DB().QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("query version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestLatestRun_Empty(t *testing.T) {
	m := setupTestManager(t)

	_, err := m.LatestRun()
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LatestRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	m := setupTestManager(t)

	started := time.Unix(1700000000, 0)
	run := Run{
		Folder:     "/music/Pugliese 1946",
		Template:   "title-orchestra-year",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Tagged:     2,
		Skipped:    1,
		Renames: []rename.Record{
			{Old: "track01.mp3", New: "La Yumba - Osvaldo Pugliese - 1946.mp3"},
			{Old: "track02.mp3", New: "Recuerdo - Osvaldo Pugliese - 1944.mp3"},
		},
	}

	id, err := m.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRun returned empty id")
	}

	got, err := m.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Folder != run.Folder || got.Template != run.Template {
		t.Errorf("got folder/template %q/%q", got.Folder, got.Template)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Tagged != 2 || got.Skipped != 1 || got.Failed != 0 {
		t.Errorf("counters = %d/%d/%d", got.Tagged, got.Skipped, got.Failed)
	}
	if got.SyncedAt != nil {
		t.Errorf("SyncedAt = %v, want nil", got.SyncedAt)
	}
	if len(got.Renames) != 2 {
		t.Fatalf("len(Renames) = %d, want 2", len(got.Renames))
	}
	for i := range run.Renames {
		if got.Renames[i] != run.Renames[i] {
			t.Errorf("Renames[%d] = %+v, want %+v", i, got.Renames[i], run.Renames[i])
		}
	}
}

func TestLatestRun_ReturnsNewest(t *testing.T) {
	m := setupTestManager(t)

	base := time.Unix(1700000000, 0)
	if _, err := m.SaveRun(Run{ID: "old", Folder: "a", StartedAt: base, FinishedAt: base}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SaveRun(Run{ID: "new", Folder: "b", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	got, err := m.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if got.ID != "new" {
		t.Errorf("LatestRun().ID = %q, want new", got.ID)
	}

	runs, err := m.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "old" {
		t.Errorf("ListRuns order = %+v", runs)
	}
}

func TestMarkSynced(t *testing.T) {
	m := setupTestManager(t)

	now := time.Unix(1700000000, 0)
	id, err := m.SaveRun(Run{Folder: "a", StartedAt: now, FinishedAt: now})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.MarkSynced(id, now.Add(time.Minute)); err != nil {
		t.Fatalf("MarkSynced failed: %v", err)
	}
	got, err := m.GetRun(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.SyncedAt == nil || !got.SyncedAt.Equal(now.Add(time.Minute)) {
		t.Errorf("SyncedAt = %v", got.SyncedAt)
	}

	if err := m.MarkSynced("missing", now); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("MarkSynced(missing) error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns_RenameCount(t *testing.T) {
	m := setupTestManager(t)

	base := time.Unix(1700000000, 0)
	_, err := m.SaveRun(Run{
		ID:         "run",
		Folder:     "/music/Pugliese 1946",
		StartedAt:  base,
		FinishedAt: base,
		Renames: []rename.Record{
			{Old: "01.mp3", New: "Pugliese - La Yumba - 1946.mp3"},
			{Old: "02.mp3", New: "Pugliese - Recuerdo - 1946.mp3"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	runs, err := m.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].RenameCount != 2 || runs[0].Renames != nil {
		t.Errorf("ListRuns() = %+v", runs)
	}

	got, err := m.GetRun("run")
	if err != nil {
		t.Fatal(err)
	}
	if got.RenameCount != 2 {
		t.Errorf("GetRun().RenameCount = %d, want 2", got.RenameCount)
	}
}
