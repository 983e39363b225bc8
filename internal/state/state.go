package state

import (
	"database/sql"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/llehouerou/tigertag/internal/db"
)

const (
	appName    = "tigertag"
	dbFileName = "tigertag.db"
)

// Manager owns the tigertag sqlite database: the imported catalogue and
// the rename journal.
type Manager struct {
	db *sql.DB
}

// Open opens the database at path, or at the default location under the
// XDG data directory when path is empty.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return setup(conn)
}

// OpenMemory opens a private in-memory database. Used by tests.
func OpenMemory() (*Manager, error) {
	conn, err := db.OpenMemory()
	if err != nil {
		return nil, err
	}
	return setup(conn)
}

func setup(conn *sql.DB) (*Manager, error) {
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Manager{db: conn}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
