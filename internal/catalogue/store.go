package catalogue

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/llehouerou/tigertag/internal/db"
)

// SourceInfo describes one imported catalogue source.
type SourceInfo struct {
	Name       string
	Entries    int
	ImportedAt time.Time
}

// Import stores cat under source, replacing any previous import of the
// same source. The catalogue_entries table is created by the state schema.
func Import(conn *sql.DB, source string, cat *Catalogue) error {
	now := time.Now().Unix()
	return db.WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM catalogue_entries WHERE source = ?`, source); err != nil {
			return fmt.Errorf("clear source: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO catalogue_entries (
				source, row_index, title, norm_title, orchestra, singer, composer,
				author, label, master, date, year, pianist, bassist, bandoneons,
				strings, genre, grouping, imported_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range cat.Entries() {
			if _, err := stmt.Exec(
				source, e.Row, e.Title, e.NormTitle, e.Orchestra, e.Singer, e.Composer,
				e.Author, e.Label, e.Master, e.Date.String(), e.Date.Year, e.Pianist,
				e.Bassist, e.Bandoneons, e.Strings, e.Genre, e.Grouping, now,
			); err != nil {
				return fmt.Errorf("insert %q: %w", e.Title, err)
			}
		}
		return nil
	})
}

// Load reads the stored catalogue restricted by f, ordered by source name
// and row. The year bounds are applied in SQL.
func Load(conn *sql.DB, f Filter) (*Catalogue, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Sources) > 0 {
		placeholders := make([]string, len(f.Sources))
		for i, s := range f.Sources {
			placeholders[i] = "?"
			args = append(args, s)
		}
		where = append(where, "source COLLATE NOCASE IN ("+strings.Join(placeholders, ", ")+")")
	}
	if f.FromYear != 0 {
		where = append(where, "year >= ?")
		args = append(args, f.FromYear)
	}
	if f.ToYear != 0 {
		where = append(where, "year <= ?")
		args = append(args, f.ToYear)
	}
	if f.FromYear != 0 || f.ToYear != 0 {
		where = append(where, "year > 0")
	}

	query := `
		SELECT source, row_index, title, orchestra, singer, composer, author,
		       label, master, date, pianist, bassist, bandoneons, strings,
		       genre, grouping
		FROM catalogue_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY source, row_index"

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			source string
			row    int
			fl     Fields
		)
		if err := rows.Scan(
			&source, &row, &fl.Title, &fl.Orchestra, &fl.Singer, &fl.Composer,
			&fl.Author, &fl.Label, &fl.Master, &fl.Date, &fl.Pianist, &fl.Bassist,
			&fl.Bandoneons, &fl.Strings, &fl.Genre, &fl.Grouping,
		); err != nil {
			return nil, err
		}
		entries = append(entries, NewEntry(source, row, fl))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &Catalogue{entries: entries}, nil
}

// Sources lists imported sources with their entry counts.
func Sources(conn *sql.DB) ([]SourceInfo, error) {
	rows, err := conn.Query(`
		SELECT source, COUNT(*), MAX(imported_at)
		FROM catalogue_entries
		GROUP BY source
		ORDER BY source
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceInfo
	for rows.Next() {
		var (
			info SourceInfo
			ts   int64
		)
		if err := rows.Scan(&info.Name, &info.Entries, &ts); err != nil {
			return nil, err
		}
		info.ImportedAt = time.Unix(ts, 0)
		out = append(out, info)
	}
	return out, rows.Err()
}
