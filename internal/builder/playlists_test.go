package builder

import (
	"context"
	"testing"

	"github.com/xxxsen/retrolist/internal/collection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergedFixture(t *testing.T) *fixture {
	f := newFixture(t)
	f.roms("Arcade", "pac.zip")
	f.roms("CollectionX", "x1.zip", "x2.zip")
	f.write("collections/Arcade/CollectionX.sub", "")
	return f
}

func TestExcludeAllWildcardRemovesCollectionFromAll(t *testing.T) {
	f := mergedFixture(t)
	f.write("collections/Arcade/exclude_all.txt", "_CollectionX:*\n")
	f.write("collections/Arcade/playlists/favorites.txt", "_CollectionX:x1\n")

	c, err := f.builder().Load(context.Background(), "Arcade")
	require.NoError(t, err)

	all := c.Playlist(collection.PlaylistAll)
	assert.Equal(t, collection.Owned, all.Kind())
	assert.Equal(t, []string{"pac"}, names(all.Items()))
	assert.Equal(t, []string{"pac", "x1", "x2"}, names(c.Items()))

	fav := c.Playlist(collection.PlaylistFavorites)
	assert.Equal(t, []string{"_CollectionX:x1"}, refs(fav.Items()))
	assert.True(t, c.FindItem("CollectionX", "x1").IsFavorite)
	assert.False(t, c.FindItem("CollectionX", "x2").IsFavorite)
}

// Bare exclude_all entries resolve against the collection that owns the file,
// so they do not reach items of merged sub-collections with the same name.
func TestExcludeAllBareEntryDefaultsToOwningCollection(t *testing.T) {
	f := mergedFixture(t)
	f.write("collections/Arcade/exclude_all.txt", "x1\npac\n")

	c, err := f.builder().Load(context.Background(), "Arcade")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, names(c.Playlist(collection.PlaylistAll).Items()))
}

func TestPlaylistsFilteredAndOrderedByCycle(t *testing.T) {
	f := newFixture(t)
	f.roms("Arcade", "pac.zip", "dig.zip")
	f.props.Set("cyclePlaylist", "year,favorites")
	f.props.Set("firstCollection", "Arcade")
	f.write("collections/Arcade/playlists/favorites.txt", "pac\nmissing\n")
	f.write("collections/Arcade/playlists/custom.txt", "dig\n")
	f.write("collections/Arcade/playlists/year.txt", "pac\ndig\npac\n")

	c, err := f.builder().Load(context.Background(), "Arcade")
	require.NoError(t, err)

	assert.Nil(t, c.Playlist("custom"))
	assert.Equal(t, []string{"dig", "pac"}, names(c.Playlist("year").Items()))
	assert.Equal(t, []string{"pac"}, names(c.Playlist(collection.PlaylistFavorites).Items()))
	assert.Equal(t, []string{"year", "favorites"}, names(c.PlaylistMenu()))
	for _, m := range c.PlaylistMenu() {
		assert.False(t, m.Leaf)
	}
	assert.Equal(t, 0, c.Playlist(collection.PlaylistLastPlayed).Len())
}

func TestPlaylistMenuSortedByNameWithoutCycle(t *testing.T) {
	f := newFixture(t)
	f.roms("Arcade", "pac.zip")
	f.write("collections/Arcade/playlists/zeta.txt", "pac\n")
	f.write("collections/Arcade/playlists/alpha.txt", "pac\n")
	f.write("collections/Arcade/playlists/notes.md", "pac\n")

	c, err := f.builder().Load(context.Background(), "Arcade")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names(c.PlaylistMenu()))
}

func TestWildcardPlaylistEntry(t *testing.T) {
	f := mergedFixture(t)
	f.props.Set("collections.Arcade.list.menuSort", "no")
	f.write("collections/Arcade/playlists/subs.txt", "_CollectionX:*\npac\n")

	c, err := f.builder().Load(context.Background(), "Arcade")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2", "pac"}, names(c.Playlist("subs").Items()))
}

func TestCycleList(t *testing.T) {
	f := newFixture(t)
	b := f.builder()
	f.props.Set("collections.Arcade.cyclePlaylist", "x")
	assert.Equal(t, []string{"x"}, b.CycleList("Arcade"))

	f.props.Set("cyclePlaylist", " a, b ,")
	f.props.Set("firstCollection", "Arcade")
	f.props.Set("collections.MAME.cyclePlaylist", "c")
	assert.Equal(t, []string{"a", "b"}, b.CycleList("Arcade"))
	assert.Equal(t, []string{"c"}, b.CycleList("MAME"))
	assert.Equal(t, []string{"a", "b"}, b.CycleList("Sega"))
	assert.Equal(t, []string{"favorites"}, b.CycleList("Favorites"))
}
