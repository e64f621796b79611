package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/log"
)

// SQLiteProvider persists all datasets in a single SQLite database, one row
// per dataset. It implements the same Provider contract as DirProvider, so
// the store is oblivious to the backend.
type SQLiteProvider struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			content TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating datasets table: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		logger: log.ForComponent("storage"),
	}, nil
}

func (p *SQLiteProvider) Load() (map[string]core.Content, error) {
	rows, err := p.db.Query("SELECT name, kind, content FROM datasets")
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			p.logger.Warnf("closing dataset rows: %v", err)
		}
	}()

	datasets := make(map[string]core.Content)
	for rows.Next() {
		var name, kind, content string
		if err := rows.Scan(&name, &kind, &content); err != nil {
			return nil, fmt.Errorf("scanning dataset row: %w", err)
		}

		switch core.Kind(kind) {
		case core.KindSQL:
			datasets[name] = core.SQLContent{Text: content}
		case core.KindJSON:
			parsed, err := core.ParseJSONContent([]byte(content))
			if err != nil {
				p.logger.Warnf("skipping JSON dataset %s: %v", name, err)
				continue
			}
			datasets[name] = parsed
		default:
			p.logger.Warnf("skipping dataset %s with unknown kind %q", name, kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dataset rows: %w", err)
	}

	return datasets, nil
}

func (p *SQLiteProvider) Save(name string, content core.Content) error {
	_, err := p.db.Exec(`
		INSERT INTO datasets (name, kind, content) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, content = excluded.content
	`, name, string(content.Kind()), content.String())
	if err != nil {
		return fmt.Errorf("saving dataset %s: %w", name, err)
	}
	return nil
}

func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}
