package metadb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/xxxsen/common/database"

	_ "github.com/lib/pq"
)

// pgDB adapts a postgres connection to database.IDatabase. gendry emits
// "?" placeholders and backtick quoting, both rewritten before execution.
type pgDB struct {
	db *sql.DB
}

var _ database.IDatabase = (*pgDB)(nil)

type pgExecer struct {
	qe database.IQueryExecer
}

func openPostgres(ctx context.Context, dsn string) (database.IDatabase, error) {
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &pgDB{db: db}, nil
}

func (p *pgDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return p.db.QueryContext(ctx, rebind(query), args...)
}

func (p *pgDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return p.db.ExecContext(ctx, rebind(query), args...)
}

func (p *pgDB) OnTransation(ctx context.Context, cb database.OnTxFunc) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := cb(ctx, &pgExecer{qe: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *pgDB) Close() error {
	return p.db.Close()
}

func (e *pgExecer) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return e.qe.QueryContext(ctx, rebind(query), args...)
}

func (e *pgExecer) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return e.qe.ExecContext(ctx, rebind(query), args...)
}

// rebind turns "?" into "$n" and backtick quoted identifiers into double
// quoted ones. Text inside single quotes is left alone.
func rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 16)
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			sb.WriteRune(r)
		case quoted:
			sb.WriteRune(r)
		case r == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		case r == '`':
			sb.WriteByte('"')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
