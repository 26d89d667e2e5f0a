package metadb

import (
	"context"
	"fmt"
	"time"

	"github.com/didi/gendry/builder"
	"github.com/xxxsen/common/database"
	"github.com/xxxsen/common/database/dbkit"
)

// Record is one row of descriptive data for an item of a metadata type.
type Record struct {
	Collection   string `db:"collection_name"`
	Name         string `db:"name"`
	Title        string `db:"title"`
	Year         string `db:"year"`
	Manufacturer string `db:"manufacturer"`
	Developer    string `db:"developer"`
	Genre        string `db:"genre"`
	Players      string `db:"players"`
	CtrlType     string `db:"ctrltype"`
	Buttons      string `db:"buttons"`
	JoyWays      string `db:"joyways"`
	CloneOf      string `db:"clone_of"`
	Rating       string `db:"rating"`
	Score        string `db:"score"`
}

const upsertBatch = 200

func (r *Record) row(now int64) map[string]interface{} {
	return map[string]interface{}{
		"collection_name": r.Collection,
		"name":            r.Name,
		"title":           r.Title,
		"year":            r.Year,
		"manufacturer":    r.Manufacturer,
		"developer":       r.Developer,
		"genre":           r.Genre,
		"players":         r.Players,
		"ctrltype":        r.CtrlType,
		"buttons":         r.Buttons,
		"joyways":         r.JoyWays,
		"clone_of":        r.CloneOf,
		"rating":          r.Rating,
		"score":           r.Score,
		"update_time":     now,
	}
}

// Upsert replaces the rows keyed by (collection, name) of every record. Later
// records win over earlier ones with the same key.
func (d *DB) Upsert(ctx context.Context, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	type key struct{ coll, name string }
	latest := make(map[key]int, len(records))
	order := make([]key, 0, len(records))
	for i := range records {
		k := key{records[i].Collection, records[i].Name}
		if _, ok := latest[k]; !ok {
			order = append(order, k)
		}
		latest[k] = i
	}

	written := 0
	err := d.db.OnTransation(ctx, func(ctx context.Context, tx database.IQueryExecer) error {
		now := time.Now().Unix()
		for start := 0; start < len(order); start += upsertBatch {
			end := start + upsertBatch
			if end > len(order) {
				end = len(order)
			}
			byColl := make(map[string][]string)
			rows := make([]map[string]interface{}, 0, end-start)
			for _, k := range order[start:end] {
				byColl[k.coll] = append(byColl[k.coll], k.name)
				rec := records[latest[k]]
				rows = append(rows, rec.row(now))
			}
			for coll, names := range byColl {
				where := map[string]interface{}{"collection_name": coll, "name in": names}
				deleteSQL, args, err := builder.BuildDelete(metaTableName, where)
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx, deleteSQL, args...); err != nil {
					return fmt.Errorf("delete meta rows: %w", err)
				}
			}
			insertSQL, args, err := builder.BuildInsert(metaTableName, rows)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
				return fmt.Errorf("insert meta rows: %w", err)
			}
			written += len(rows)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Lookup returns the rows of one metadata type keyed by item name.
func (d *DB) Lookup(ctx context.Context, collection string) (map[string]Record, error) {
	where := map[string]interface{}{"collection_name": collection}
	var rows []*Record
	if err := dbkit.SimpleQuery(ctx, d.db, metaTableName, where, &rows, dbkit.ScanWithTagName("db")); err != nil {
		return nil, fmt.Errorf("query meta rows: %w", err)
	}
	result := make(map[string]Record, len(rows))
	for _, r := range rows {
		result[r.Name] = *r
	}
	return result, nil
}

// DeleteCollection drops every row of a metadata type.
func (d *DB) DeleteCollection(ctx context.Context, collection string) (int64, error) {
	deleteSQL, args, err := builder.BuildDelete(metaTableName, map[string]interface{}{"collection_name": collection})
	if err != nil {
		return 0, err
	}
	res, err := d.db.ExecContext(ctx, deleteSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("delete meta rows: %w", err)
	}
	return res.RowsAffected()
}
