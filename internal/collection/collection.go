package collection

import (
	"sort"
	"strings"
)

const (
	PlaylistAll        = "all"
	PlaylistFavorites  = "favorites"
	PlaylistLastPlayed = "lastplayed"
)

// Collection owns an ordered item sequence and the playlists built over it.
type Collection struct {
	Name string
	// ListPath holds the semicolon separated scan roots.
	ListPath     string
	Extensions   []string
	MetadataType string
	Launcher     string

	MenuSort  bool
	SubsSplit bool
	HasSubs   bool
	// SaveRequest is set when the favorites playlist changed and should be persisted.
	SaveRequest bool

	items        []*Item
	subs         []*Collection
	playlists    map[string]*Playlist
	playlistMenu []*Item
}

// New builds an empty collection. MenuSort defaults to true.
func New(name string) *Collection {
	return &Collection{
		Name:         name,
		MetadataType: name,
		MenuSort:     true,
		playlists:    make(map[string]*Playlist),
	}
}

func (c *Collection) LowercaseName() string { return strings.ToLower(c.Name) }

// Items returns the master sequence. Callers must not append to it.
func (c *Collection) Items() []*Item { return c.items }

func (c *Collection) Len() int { return len(c.items) }

// AddItem appends it to the master sequence.
func (c *Collection) AddItem(it *Item) {
	c.items = append(c.items, it)
}

// PrependItems inserts items, in order, ahead of the current master sequence.
func (c *Collection) PrependItems(items ...*Item) {
	if len(items) == 0 {
		return
	}
	merged := make([]*Item, 0, len(items)+len(c.items))
	merged = append(merged, items...)
	merged = append(merged, c.items...)
	c.items = merged
}

// FindItem returns the first item named name owned by the collection named coll.
func (c *Collection) FindItem(coll, name string) *Item {
	for _, it := range c.items {
		if it.Name == name && it.CollectionName() == coll {
			return it
		}
	}
	return nil
}

// AddSubcollection merges sub's items in front of the master sequence.
func (c *Collection) AddSubcollection(sub *Collection) {
	c.subs = append(c.subs, sub)
	c.PrependItems(sub.items...)
	c.HasSubs = true
}

func (c *Collection) Subcollections() []*Collection { return c.subs }

// Playlist returns the named playlist or nil.
func (c *Collection) Playlist(name string) *Playlist {
	return c.playlists[name]
}

// EnsurePlaylist returns the named playlist, creating an empty owned one when absent.
func (c *Collection) EnsurePlaylist(name string) *Playlist {
	if p, ok := c.playlists[name]; ok {
		return p
	}
	p := newOwnedPlaylist(c, name)
	c.playlists[name] = p
	return p
}

// ResetPlaylist replaces the named playlist with an empty owned one.
func (c *Collection) ResetPlaylist(name string) *Playlist {
	p := newOwnedPlaylist(c, name)
	c.playlists[name] = p
	return p
}

// AliasAll makes the "all" playlist a live view of the master sequence.
func (c *Collection) AliasAll() *Playlist {
	p := &Playlist{name: PlaylistAll, kind: Alias, owner: c}
	c.playlists[PlaylistAll] = p
	return p
}

// PlaylistNames lists every playlist name in lexical order.
func (c *Collection) PlaylistNames() []string {
	names := make([]string, 0, len(c.playlists))
	for name := range c.playlists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlaylistMenu returns the marker items for the playlists in presentation order.
func (c *Collection) PlaylistMenu() []*Item { return c.playlistMenu }

func (c *Collection) SetPlaylistMenu(items []*Item) { c.playlistMenu = items }
