package configutil

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Database describes where distribution history is persisted: a local
// sqlite file by default, or a remote libsql/turso instance when Url is set.
type Database struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens the configured database and applies the given schema.
// The schema is expected to be idempotent (CREATE TABLE IF NOT EXISTS ...).
func (config Database) OpenDB(schema string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	if config.Url == "" {
		file := config.File
		if file == "" {
			file = "dividendwatch.db"
		}
		db, err = sql.Open("sqlite", file)
	} else {
		dsn := config.Url
		if config.AuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.Url, config.AuthToken)
		}
		db, err = sql.Open("libsql", dsn)
	}
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
