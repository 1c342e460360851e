package dataset

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

func init() { register(sqliteLoader{}) }

type sqliteLoader struct{}

func (sqliteLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".db", ".sqlite", ".sqlite3")
}

func (sqliteLoader) Load(path string, opt LoadOptions) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	name := opt.DBTable
	if name == "" {
		tables, err := listTables(db)
		if err != nil {
			return nil, err
		}
		switch len(tables) {
		case 0:
			return nil, fmt.Errorf("no tables in %s", path)
		case 1:
			name = tables[0]
		default:
			return nil, fmt.Errorf("%s has %d tables, pick one with --table (%s)",
				path, len(tables), strings.Join(tables, ", "))
		}
	}
	return readTable(db, name)
}

// ListTables reports the user table names in a SQLite file.
func ListTables(path string) ([]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	return listTables(db)
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func readTable(db *sql.DB, name string) (*Table, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("read table %q: %w", name, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %q: %w", name, err)
	}
	var data [][]string
	vals := make([]sql.NullString, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d of %q: %w", len(data)+1, name, err)
		}
		row := make([]string, len(header))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %q: %w", name, err)
	}
	return FromRows(header, data)
}

// SaveTable writes a Table into a SQLite file, replacing any table with the
// same name. All columns are stored as TEXT; missing cells become NULL.
func SaveTable(path, name string, t *Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	names := t.ColumnNames()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n) + " TEXT"
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(name))); err != nil {
		return fmt.Errorf("drop %q: %w", name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(name), strings.Join(quoted, ", "))); err != nil {
		return fmt.Errorf("create %q: %w", name, err)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s VALUES (%s)`, quoteIdent(name), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		args := make([]any, len(row))
		for c, v := range row {
			if IsMissing(v) {
				args[c] = nil
			} else {
				args[c] = v
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
