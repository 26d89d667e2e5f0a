package collection

// PlaylistKind tells whether a playlist owns its sequence or views the master one.
type PlaylistKind int

const (
	Owned PlaylistKind = iota
	Alias
)

func (k PlaylistKind) String() string {
	if k == Alias {
		return "alias"
	}
	return "owned"
}

// Playlist is an ordered list of references into a collection's master sequence.
type Playlist struct {
	name  string
	kind  PlaylistKind
	owner *Collection
	items []*Item
}

func newOwnedPlaylist(owner *Collection, name string) *Playlist {
	return &Playlist{name: name, kind: Owned, owner: owner}
}

func (p *Playlist) Name() string       { return p.name }
func (p *Playlist) Kind() PlaylistKind { return p.kind }
func (p *Playlist) IsAlias() bool      { return p.kind == Alias }

// Items returns the playlist order. For an alias this is the master sequence.
func (p *Playlist) Items() []*Item {
	if p.kind == Alias {
		return p.owner.items
	}
	return p.items
}

func (p *Playlist) Len() int { return len(p.Items()) }

// Append adds references. Alias playlists cannot be modified.
func (p *Playlist) Append(items ...*Item) {
	if p.kind == Alias {
		panic("collection: append to alias playlist " + p.name)
	}
	p.items = append(p.items, items...)
}

func (p *Playlist) Clear() {
	if p.kind == Alias {
		panic("collection: clear alias playlist " + p.name)
	}
	p.items = nil
}

func (p *Playlist) Contains(it *Item) bool {
	for _, cur := range p.Items() {
		if cur == it {
			return true
		}
	}
	return false
}

// Remove drops every reference to it and reports whether one was found.
func (p *Playlist) Remove(it *Item) bool {
	if p.kind == Alias {
		panic("collection: remove from alias playlist " + p.name)
	}
	kept := p.items[:0]
	found := false
	for _, cur := range p.items {
		if cur == it {
			found = true
			continue
		}
		kept = append(kept, cur)
	}
	p.items = kept
	return found
}
