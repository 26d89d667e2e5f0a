package metadb

import (
	"context"

	"github.com/xxxsen/retrolist/internal/collection"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Inject fills descriptive fields of the leaf items of c from the rows stored
// under c.MetadataType. Empty columns leave the item field untouched.
func (d *DB) Inject(ctx context.Context, c *collection.Collection) error {
	records, err := d.Lookup(ctx, c.MetadataType)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	matched := 0
	for _, it := range c.Items() {
		if !it.Leaf {
			continue
		}
		rec, ok := records[it.Name]
		if !ok {
			continue
		}
		applyRecord(it, &rec)
		matched++
	}
	logutil.GetLogger(ctx).Debug("metadata injected",
		zap.String("collection", c.Name),
		zap.String("metadata_type", c.MetadataType),
		zap.Int("matched", matched),
		zap.Int("items", c.Len()))
	return nil
}

func applyRecord(it *collection.Item, rec *Record) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&it.Title, rec.Title)
	set(&it.FullTitle, rec.Title)
	set(&it.Year, rec.Year)
	set(&it.Manufacturer, rec.Manufacturer)
	set(&it.Developer, rec.Developer)
	set(&it.Genre, rec.Genre)
	set(&it.NumberPlayers, rec.Players)
	set(&it.CtrlType, rec.CtrlType)
	set(&it.NumberButtons, rec.Buttons)
	set(&it.JoyWays, rec.JoyWays)
	set(&it.CloneOf, rec.CloneOf)
	set(&it.Rating, rec.Rating)
	set(&it.Score, rec.Score)
}
