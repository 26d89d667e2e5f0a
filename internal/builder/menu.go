package builder

import (
	"context"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type legacyMenu struct {
	XMLName xml.Name         `xml:"menu"`
	Items   []legacyMenuItem `xml:"item"`
}

type legacyMenuItem struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (i legacyMenuItem) collection() (string, bool) {
	for _, a := range i.Attrs {
		if a.Name.Local == "collection" {
			return a.Value, true
		}
	}
	return "", false
}

// BuildMenuItems puts the sub-menu nodes of c in front of its items.
// Sources in order: menu.txt, the menu/ directory, legacy menu.xml.
func (b *Builder) BuildMenuItems(ctx context.Context, c *collection.Collection, menuSort bool) bool {
	items, ok := b.textMenu(ctx, c)
	if !ok {
		items, ok = b.legacyXMLMenu(ctx, c)
	}
	if !ok {
		return false
	}
	c.MenuSort = menuSort
	c.PrependItems(items...)
	return true
}

func (b *Builder) textMenu(ctx context.Context, c *collection.Collection) ([]*collection.Item, bool) {
	logger := logutil.GetLogger(ctx)
	menuFile := b.layout.MenuFile(c.Name)

	if listfile.Exists(menuFile) {
		lines, err := listfile.ReadLines(menuFile)
		if err != nil {
			logger.Warn("read menu file failed", zap.String("file", menuFile), zap.Error(err))
			return nil, false
		}
		items := make([]*collection.Item, 0, len(lines))
		for _, title := range lines {
			items = append(items, collection.NewMenuItem(c, title))
		}
		return items, true
	}

	dir := b.layout.MenuDir(c.Name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug("no menu.txt or menu directory", zap.String("collection", c.Name))
		return nil, false
	}
	var items []*collection.Item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		title := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		items = append(items, collection.NewMenuItem(c, title))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LowercaseFullTitle() < items[j].LowercaseFullTitle()
	})
	return items, true
}

func (b *Builder) legacyXMLMenu(ctx context.Context, c *collection.Collection) ([]*collection.Item, bool) {
	logger := logutil.GetLogger(ctx)
	path := b.layout.MenuXMLFile(c.Name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Error("open menu.xml failed", zap.String("file", path), zap.Error(err))
		}
		return nil, false
	}
	logger.Info("using legacy menu.xml, consider menu.txt", zap.String("file", path))

	var doc legacyMenu
	if err := xml.Unmarshal(data, &doc); err != nil {
		logger.Error("decode menu.xml failed", zap.String("file", path), zap.Error(err))
		return nil, false
	}
	items := make([]*collection.Item, 0, len(doc.Items))
	for idx, entry := range doc.Items {
		name, ok := entry.collection()
		if !ok {
			logger.Error("menu item missing collection attribute",
				zap.String("file", path), zap.Int("index", idx))
			continue
		}
		items = append(items, collection.NewMenuItem(c, name))
	}
	return items, true
}
