package metadb

import (
	"context"
	"fmt"

	"github.com/xxxsen/retrolist/internal/config"

	"github.com/xxxsen/common/database"
	"github.com/xxxsen/common/database/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const metaTableName = "retro_meta_tab"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS retro_meta_tab (
	collection_name VARCHAR(128) NOT NULL,
	name VARCHAR(255) NOT NULL,
	title VARCHAR(512) NOT NULL DEFAULT '',
	year VARCHAR(16) NOT NULL DEFAULT '',
	manufacturer VARCHAR(255) NOT NULL DEFAULT '',
	developer VARCHAR(255) NOT NULL DEFAULT '',
	genre VARCHAR(255) NOT NULL DEFAULT '',
	players VARCHAR(16) NOT NULL DEFAULT '',
	ctrltype VARCHAR(64) NOT NULL DEFAULT '',
	buttons VARCHAR(16) NOT NULL DEFAULT '',
	joyways VARCHAR(16) NOT NULL DEFAULT '',
	clone_of VARCHAR(255) NOT NULL DEFAULT '',
	rating VARCHAR(16) NOT NULL DEFAULT '',
	score VARCHAR(16) NOT NULL DEFAULT '',
	update_time BIGINT NOT NULL,
	PRIMARY KEY (collection_name, name)
);`

// DB is the metadata store. Queries are written with "?" placeholders; the
// postgres backend rebinds them.
type DB struct {
	db database.IDatabase
}

// Open connects to the configured backend and ensures the schema exists.
func Open(ctx context.Context, c config.MetaDBConfig) (*DB, error) {
	driver := c.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	if c.DSN == "" {
		return nil, fmt.Errorf("metadb dsn is empty")
	}
	var (
		idb database.IDatabase
		err error
	)
	switch driver {
	case DriverSQLite:
		idb, err = sqlite.New(c.DSN, func(db database.IDatabase) error {
			return EnsureSchema(ctx, db)
		})
	case DriverPostgres:
		idb, err = openPostgres(ctx, c.DSN)
		if err == nil {
			if err = EnsureSchema(ctx, idb); err != nil {
				_ = idb.Close()
			}
		}
	default:
		return nil, fmt.Errorf("metadb driver %q not supported", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s metadb: %w", driver, err)
	}
	return &DB{db: idb}, nil
}

// EnsureSchema initialises required tables.
func EnsureSchema(ctx context.Context, db database.IDatabase) error {
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create %s: %w", metaTableName, err)
	}
	return nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}
