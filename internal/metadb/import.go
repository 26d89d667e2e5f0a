package metadb

import (
	"context"
	"fmt"

	"github.com/xxxsen/retrolist/internal/dat"
	"github.com/xxxsen/retrolist/internal/metadata"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const importBatch = 500

// ImportDat loads the playable sets of a MAME or FinalBurn Neo DAT under the
// metadata type collection.
func (d *DB) ImportDat(ctx context.Context, collection, path string, format dat.Format) (int, error) {
	parser, err := dat.NewParser(format)
	if err != nil {
		return 0, err
	}
	total := 0
	batch := make([]Record, 0, importBatch)
	flush := func() error {
		n, err := d.Upsert(ctx, batch)
		if err != nil {
			return err
		}
		total += n
		batch = batch[:0]
		return nil
	}
	_, err = parser.ParseFile(path, func(m *dat.Machine) error {
		batch = append(batch, machineRecord(collection, m))
		if len(batch) >= importBatch {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("import dat %s: %w", path, err)
	}
	if err := flush(); err != nil {
		return total, fmt.Errorf("import dat %s: %w", path, err)
	}
	logutil.GetLogger(ctx).Info("dat imported",
		zap.String("collection", collection), zap.String("file", path),
		zap.String("format", string(format)), zap.Int("rows", total))
	return total, nil
}

func machineRecord(collection string, m *dat.Machine) Record {
	return Record{
		Collection:   collection,
		Name:         m.Name,
		Title:        m.Description,
		Year:         m.Year,
		Manufacturer: m.Manufacturer,
		Players:      m.Players(),
		CtrlType:     m.ControlType(),
		Buttons:      m.Buttons(),
		JoyWays:      m.Ways(),
		CloneOf:      m.CloneOf,
	}
}

// ImportMetadata loads a gamelist.xml or Pegasus metadata file under the
// metadata type collection.
func (d *DB) ImportMetadata(ctx context.Context, collection, path string, format metadata.Format) (int, error) {
	games, err := metadata.ReadFile(path, format)
	if err != nil {
		return 0, err
	}
	records := make([]Record, 0, len(games))
	for i := range games {
		g := &games[i]
		records = append(records, Record{
			Collection:   collection,
			Name:         g.Name,
			Title:        g.Title,
			Year:         g.Year,
			Manufacturer: g.Publisher,
			Developer:    g.Developer,
			Genre:        g.Genre,
			Players:      g.Players,
			Rating:       g.Rating,
		})
	}
	n, err := d.Upsert(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("import metadata %s: %w", path, err)
	}
	logutil.GetLogger(ctx).Info("metadata imported",
		zap.String("collection", collection), zap.String("file", path),
		zap.String("format", string(format)), zap.Int("rows", n))
	return n, nil
}
