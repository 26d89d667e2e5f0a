package metadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/config"
	"github.com/xxxsen/retrolist/internal/dat"
	"github.com/xxxsen/retrolist/internal/metadata"

	"github.com/didi/gendry/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/database"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(context.Background(), config.MetaDBConfig{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "meta.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestUpsertAndLookup(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	n, err := d.Upsert(ctx, []Record{
		{Collection: "MAME", Name: "pacman", Title: "Pac-Man", Year: "1980"},
		{Collection: "MAME", Name: "galaga", Title: "Galaga", Year: "1981"},
		{Collection: "NES", Name: "pacman", Title: "Pac-Man (NES)"},
		{Collection: "MAME", Name: "pacman", Title: "Pac-Man (Midway)", Year: "1980"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := d.Lookup(ctx, "MAME")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pac-Man (Midway)", rows["pacman"].Title)
	assert.Equal(t, "1981", rows["galaga"].Year)

	_, err = d.Upsert(ctx, []Record{{Collection: "MAME", Name: "galaga", Title: "Galaga '88"}})
	require.NoError(t, err)
	rows, err = d.Lookup(ctx, "MAME")
	require.NoError(t, err)
	assert.Equal(t, "Galaga '88", rows["galaga"].Title)
	assert.Equal(t, "", rows["galaga"].Year)

	deleted, err := d.DeleteCollection(ctx, "NES")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	rows, err = d.Lookup(ctx, "NES")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpsertManyRecordsInBatches(t *testing.T) {
	d := openTestDB(t)
	records := make([]Record, 0, upsertBatch*2+5)
	for i := 0; i < cap(records); i++ {
		records = append(records, Record{Collection: "MAME", Name: fmt.Sprintf("set%d", i)})
	}
	n, err := d.Upsert(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, len(records), n)
	rows, err := d.Lookup(context.Background(), "MAME")
	require.NoError(t, err)
	assert.Len(t, rows, len(records))
}

func TestInject(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	_, err := d.Upsert(ctx, []Record{
		{Collection: "MAME", Name: "pacman", Title: "Pac-Man", Year: "1980", Manufacturer: "Namco",
			Players: "2", CtrlType: "joy", JoyWays: "4", CloneOf: ""},
	})
	require.NoError(t, err)

	c := collection.New("Arcade")
	c.MetadataType = "MAME"
	pac := collection.NewItem(c, "pacman")
	other := collection.NewItem(c, "unknown")
	menu := collection.NewMenuItem(c, "pacman")
	c.AddItem(pac)
	c.AddItem(other)
	c.AddItem(menu)

	require.NoError(t, d.Inject(ctx, c))
	assert.Equal(t, "Pac-Man", pac.Title)
	assert.Equal(t, "Pac-Man", pac.FullTitle)
	assert.Equal(t, "1980", pac.Year)
	assert.Equal(t, "Namco", pac.Manufacturer)
	assert.Equal(t, "2", pac.NumberPlayers)
	assert.Equal(t, "4", pac.JoyWays)
	assert.Equal(t, "unknown", other.Title)
	assert.Equal(t, "", menu.Year)
}

const datSample = `<?xml version="1.0"?>
<datafile>
	<game name="neogeo" isbios="yes"><description>Neo Geo</description></game>
	<game name="mslug"><description>Metal Slug</description><year>1996</year><manufacturer>Nazca</manufacturer></game>
	<game name="mslug2" cloneof="mslug"><description>Metal Slug 2</description><year>1998</year></game>
</datafile>`

func TestImportDat(t *testing.T) {
	d := openTestDB(t)
	path := filepath.Join(t.TempDir(), "fbneo.dat")
	require.NoError(t, os.WriteFile(path, []byte(datSample), 0o644))

	n, err := d.ImportDat(context.Background(), "FBNeo", path, dat.FormatFBNeo)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := d.Lookup(context.Background(), "FBNeo")
	require.NoError(t, err)
	assert.Equal(t, "Metal Slug", rows["mslug"].Title)
	assert.Equal(t, "mslug", rows["mslug2"].CloneOf)

	_, err = d.ImportDat(context.Background(), "FBNeo", path, dat.Format("nope"))
	assert.ErrorIs(t, err, dat.ErrUnknownFormat)
}

func TestImportGamelist(t *testing.T) {
	d := openTestDB(t)
	path := filepath.Join(t.TempDir(), "gamelist.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<gameList>
<game><path>./Sonic.zip</path><name>Sonic</name><publisher>Sega</publisher><genre>Platform</genre><releasedate>19910623T000000</releasedate></game>
</gameList>`), 0o644))

	n, err := d.ImportMetadata(context.Background(), "Genesis", path, metadata.FormatGamelist)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	rows, err := d.Lookup(context.Background(), "Genesis")
	require.NoError(t, err)
	assert.Equal(t, "Sega", rows["Sonic"].Manufacturer)
	assert.Equal(t, "1991", rows["Sonic"].Year)
	assert.Equal(t, "Platform", rows["Sonic"].Genre)
}

func TestRebind(t *testing.T) {
	q := "SELECT `name` FROM t WHERE (`a`=? AND `b` IN (?,?) AND c='x?')"
	assert.Equal(t, `SELECT "name" FROM t WHERE ("a"=$1 AND "b" IN ($2,$3) AND c='x?')`, rebind(q))
}

type recordingExecer struct {
	queries []string
}

func (r *recordingExecer) QueryContext(_ context.Context, query string, _ ...interface{}) (*sql.Rows, error) {
	r.queries = append(r.queries, query)
	return nil, errors.New("not connected")
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	r.queries = append(r.queries, query)
	return nil, errors.New("not connected")
}

func TestPostgresExecerRebindsGendryOutput(t *testing.T) {
	rec := &recordingExecer{}
	var qe database.IQueryExecer = &pgExecer{qe: rec}
	del, args, err := builder.BuildDelete(metaTableName, map[string]interface{}{
		"collection_name": "MAME", "name in": []string{"a", "b"},
	})
	require.NoError(t, err)
	_, _ = qe.ExecContext(context.Background(), del, args...)
	_, _ = qe.QueryContext(context.Background(), "SELECT `name` FROM t WHERE `a`=?")
	require.Len(t, rec.queries, 2)
	assert.NotContains(t, rec.queries[0], "?")
	assert.Contains(t, rec.queries[0], "$3")
	assert.Equal(t, `SELECT "name" FROM t WHERE "a"=$1`, rec.queries[1])
}

func TestTransactionRollsBackOnError(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	err := d.db.OnTransation(ctx, func(ctx context.Context, tx database.IQueryExecer) error {
		ins, args, err := builder.BuildInsert(metaTableName, []map[string]interface{}{
			(&Record{Collection: "MAME", Name: "pacman"}).row(1),
		})
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")
	rows, err := d.Lookup(ctx, "MAME")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, err := Open(context.Background(), config.MetaDBConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
	_, err = Open(context.Background(), config.MetaDBConfig{Driver: DriverSQLite})
	assert.Error(t, err)
}
