package collection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Item is one catalog entry: a launchable game, a menu node or a playlist marker.
type Item struct {
	Name      string
	Title     string
	FullTitle string
	// Filepath is the directory holding the matched file, with a trailing separator.
	Filepath string
	// File is the matched file name without extension; differs from Name in emuarc mode.
	File string

	Year          string
	Manufacturer  string
	Developer     string
	Genre         string
	CloneOf       string
	NumberPlayers string
	NumberButtons string
	CtrlType      string
	JoyWays       string
	Rating        string
	Score         string

	PlayCount  int
	LastPlayed string
	IsFavorite bool
	// Leaf is false for sub-menu nodes.
	Leaf bool

	// Collection owns the item. Not owning in the other direction.
	Collection *Collection

	info map[string]string
}

// NewItem builds a launchable item named name owned by c.
func NewItem(c *Collection, name string) *Item {
	return &Item{
		Name:       name,
		Title:      name,
		FullTitle:  name,
		LastPlayed: "0",
		Leaf:       true,
		Collection: c,
	}
}

// NewMenuItem builds a sub-menu node.
func NewMenuItem(c *Collection, title string) *Item {
	it := NewItem(c, title)
	it.Leaf = false
	return it
}

// CollectionName is the name of the owning collection, or "" for detached items.
func (it *Item) CollectionName() string {
	if it.Collection == nil {
		return ""
	}
	return it.Collection.Name
}

// Ref is the composite reference to the item.
func (it *Item) Ref() listfile.Ref {
	return listfile.Ref{Collection: it.CollectionName(), Name: it.Name}
}

func (it *Item) LowercaseFullTitle() string { return strings.ToLower(it.FullTitle) }

// MetaAttribute returns the lowercase value of field, "" for SortNone.
func (it *Item) MetaAttribute(field SortField) string {
	var v string
	switch field {
	case SortYear:
		v = it.Year
	case SortManufacturer:
		v = it.Manufacturer
	case SortDeveloper:
		v = it.Developer
	case SortGenre:
		v = it.Genre
	case SortNumberPlayers:
		v = it.NumberPlayers
	case SortNumberButtons:
		v = it.NumberButtons
	case SortCtrlType:
		v = it.CtrlType
	case SortJoyWays:
		v = it.JoyWays
	case SortRating:
		v = it.Rating
	case SortScore:
		v = it.Score
	case SortLastPlayed:
		v = it.LastPlayed
	case SortPlayCount:
		v = strconv.Itoa(it.PlayCount)
	}
	return strings.ToLower(v)
}

// GetMetaAttribute looks the field up by name, case insensitive. Unknown names yield "".
func (it *Item) GetMetaAttribute(name string) string {
	field, ok := ParseSortField(name)
	if !ok {
		return ""
	}
	return it.MetaAttribute(field)
}

// SetInfo stores an extra attribute. The first value stored for a key wins.
func (it *Item) SetInfo(key, value string) {
	if it.info == nil {
		it.info = make(map[string]string)
	}
	if _, ok := it.info[key]; ok {
		return
	}
	it.info[key] = value
}

func (it *Item) Info(key string) (string, bool) {
	v, ok := it.info[key]
	return v, ok
}

// LoadInfo reads "key = value" lines from path into the side table.
// A missing file is not an error.
func (it *Item) LoadInfo(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open item info %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := listfile.CleanLine(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			logutil.GetLogger(ctx).Error("missing '=' in item info",
				zap.String("file", path), zap.Int("line", lineNo))
			continue
		}
		it.SetInfo(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read item info %s: %w", path, err)
	}
	return nil
}
