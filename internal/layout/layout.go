package layout

import "path/filepath"

// FavoritesCollection is the shared collection used when globalFavLast is on.
const FavoritesCollection = "Favorites"

// Layout resolves the on-disk locations used under a frontend root directory.
type Layout struct {
	root string
}

func New(root string) Layout {
	return Layout{root: filepath.Clean(root)}
}

func (l Layout) Root() string { return l.root }

func (l Layout) CollectionsDir() string {
	return filepath.Join(l.root, "collections")
}

func (l Layout) CollectionDir(name string) string {
	return filepath.Join(l.CollectionsDir(), name)
}

// DefaultRomDir is the scan root used when a collection does not configure list.path.
func (l Layout) DefaultRomDir(name string) string {
	return filepath.Join(l.CollectionDir(name), "roms")
}

func (l Layout) IncludeFile(name string) string {
	return filepath.Join(l.CollectionDir(name), "include.txt")
}

func (l Layout) ExcludeFile(name string) string {
	return filepath.Join(l.CollectionDir(name), "exclude.txt")
}

func (l Layout) ExcludeAllFile(name string) string {
	return filepath.Join(l.CollectionDir(name), "exclude_all.txt")
}

// SubFile is the include list an umbrella collection keeps for one of its sub-collections.
func (l Layout) SubFile(merged, sub string) string {
	return filepath.Join(l.CollectionDir(merged), sub+".sub")
}

func (l Layout) PlaylistsDir(name string) string {
	return filepath.Join(l.CollectionDir(name), "playlists")
}

func (l Layout) PlaylistFile(name, playlist string) string {
	return filepath.Join(l.PlaylistsDir(name), playlist+".txt")
}

func (l Layout) PlayCountFile() string {
	return filepath.Join(l.CollectionsDir(), "playCount.txt")
}

func (l Layout) MenuFile(name string) string {
	return filepath.Join(l.CollectionDir(name), "menu.txt")
}

func (l Layout) MenuDir(name string) string {
	return filepath.Join(l.CollectionDir(name), "menu")
}

func (l Layout) MenuXMLFile(name string) string {
	return filepath.Join(l.CollectionDir(name), "menu.xml")
}

func (l Layout) SettingsFile(name string) string {
	return filepath.Join(l.CollectionDir(name), "settings.conf")
}

// ItemInfoFile holds the key=value side table for one item.
func (l Layout) ItemInfoFile(collection, item string) string {
	return filepath.Join(l.CollectionDir(collection), "info", item+".conf")
}

// Resolve makes p absolute relative to the root.
func (l Layout) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.root, p)
}
