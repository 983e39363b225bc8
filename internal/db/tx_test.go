package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.Exec(`CREATE TABLE renames (position INTEGER PRIMARY KEY, old_name TEXT NOT NULL)`)
	require.NoError(t, err)
	return conn
}

func countRows(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM renames`).Scan(&n))
	return n
}

func TestWithTx_Commits(t *testing.T) {
	conn := openTestDB(t)

	err := WithTx(conn, func(tx *sql.Tx) error {
		for _, name := range []string{"a.mp3", "b.flac", "c.m4a"} {
			if _, err := tx.Exec(`INSERT INTO renames (old_name) VALUES (?)`, name); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, countRows(t, conn))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	conn := openTestDB(t)
	abort := errors.New("abort")

	err := WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO renames (old_name) VALUES (?)`, "a.mp3"); err != nil {
			return err
		}
		return abort
	})

	assert.ErrorIs(t, err, abort)
	assert.Equal(t, 0, countRows(t, conn))
}

func TestNullInt64ToPtr(t *testing.T) {
	assert.Nil(t, NullInt64ToPtr(sql.NullInt64{Int64: 42}))

	p := NullInt64ToPtr(sql.NullInt64{Int64: 0, Valid: true})
	require.NotNil(t, p)
	assert.Equal(t, int64(0), *p)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tigertag.db")

	conn, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var fk int
	require.NoError(t, conn.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	assert.FileExists(t, path)
}
