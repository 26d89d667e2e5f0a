package collection

import (
	"sort"
	"strings"
)

// Less orders a before b. Rules, most significant first:
// menu nodes before leaves, sub-collection grouping when the owner splits subs,
// menu nodes keep their order, the sort field, then the lowercase full title
// unless menusort is off.
func Less(a, b *Item, field SortField, menusort bool) bool {
	if a.Leaf != b.Leaf {
		return !a.Leaf
	}

	if a.Collection != nil && a.Collection.SubsSplit && a.Collection != b.Collection {
		return a.Collection.LowercaseName() < lowercaseCollection(b)
	}

	if !a.Leaf && !b.Leaf {
		return false
	}

	if field != SortNone {
		av, bv := a.MetaAttribute(field), b.MetaAttribute(field)
		if av != bv {
			if c := compareValues(av, bv); c != 0 {
				if field.Descending() {
					return c > 0
				}
				return c < 0
			}
		}
	}

	if !menusort {
		return false
	}
	return a.LowercaseFullTitle() < b.LowercaseFullTitle()
}

func lowercaseCollection(it *Item) string {
	if it.Collection == nil {
		return ""
	}
	return it.Collection.LowercaseName()
}

func compareValues(a, b string) int {
	return strings.Compare(a, b)
}

// SortSlice orders items in place, keeping the relative order of ties.
func SortSlice(items []*Item, field SortField, menusort bool) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j], field, menusort)
	})
}

// SortItems orders the master sequence by title, honoring MenuSort.
func (c *Collection) SortItems() {
	SortSlice(c.items, SortNone, c.MenuSort)
}

// SortPlaylist orders one owned playlist. A playlist named after a sort field
// (e.g. "year" or "playCount") is ordered by that field.
func (c *Collection) SortPlaylist(name string) {
	p := c.playlists[name]
	if p == nil || p.IsAlias() {
		return
	}
	field, _ := ParseSortField(name)
	SortSlice(p.items, field, c.MenuSort)
}

// SortPlaylists orders every owned playlist independently.
func (c *Collection) SortPlaylists() {
	for name := range c.playlists {
		c.SortPlaylist(name)
	}
}

// SortByLastPlayed orders a last-played list newest first, then by title.
func SortByLastPlayed(items []*Item) {
	SortSlice(items, SortLastPlayed, true)
}
