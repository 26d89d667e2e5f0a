package builder

import (
	"context"
	"testing"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/fsx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesRoundTrip(t *testing.T) {
	f := mergedFixture(t)
	b := f.builder()
	ctx := context.Background()

	c, err := b.Load(ctx, "Arcade")
	require.NoError(t, err)
	assert.True(t, c.AddFavorite(c.FindItem("CollectionX", "x1")))
	assert.True(t, c.AddFavorite(c.FindItem("Arcade", "pac")))
	assert.False(t, c.AddFavorite(c.FindItem("Arcade", "pac")))
	require.NoError(t, b.SaveFavorites(ctx, c, nil))
	assert.False(t, c.SaveRequest)
	assert.Equal(t, "pac\n_CollectionX:x1\n", f.read("collections/Arcade/playlists/favorites.txt"))

	again, err := b.Load(ctx, "Arcade")
	require.NoError(t, err)
	fav := again.Playlist(collection.PlaylistFavorites)
	assert.Equal(t, []string{"_Arcade:pac", "_CollectionX:x1"}, refs(fav.Items()))
	assert.True(t, again.FindItem("Arcade", "pac").IsFavorite)

	pac := again.FindItem("Arcade", "pac")
	assert.True(t, again.RemoveFavorite(pac))
	require.NoError(t, b.SaveFavorites(ctx, again, pac))
	assert.Equal(t, "_CollectionX:x1\n", f.read("collections/Arcade/playlists/favorites.txt"))
}

func TestSaveFavoritesWithoutRequestIsNoop(t *testing.T) {
	f := newFixture(t)
	f.roms("Arcade", "pac.zip")
	b := f.builder()
	c, err := b.Load(context.Background(), "Arcade")
	require.NoError(t, err)

	require.NoError(t, b.SaveFavorites(context.Background(), c, nil))
	assert.NoDirExists(t, b.Layout().PlaylistsDir("Arcade"))
}

func TestSaveFavoritesFailureKeepsMemoryState(t *testing.T) {
	f := newFixture(t)
	f.roms("Arcade", "pac.zip")
	f.write("collections/Arcade/playlists", "not a directory")
	b := f.builder()
	ctx := context.Background()

	c, err := b.Load(ctx, "Arcade")
	require.NoError(t, err)
	pac := c.FindItem("Arcade", "pac")
	c.AddFavorite(pac)

	err = b.SaveFavorites(ctx, c, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fsx.ErrNotDirectory)
	assert.True(t, c.SaveRequest)
	assert.True(t, c.Playlist(collection.PlaylistFavorites).Contains(pac))
}

func TestGlobalFavoritesAppendAndRemove(t *testing.T) {
	f := newFixture(t)
	f.roms("A", "pac.zip")
	f.roms("B", "dig.zip")
	f.props.Set("globalFavLast", "true")
	b := f.builder()
	ctx := context.Background()
	shared := "collections/Favorites/playlists/favorites.txt"

	a, err := b.Load(ctx, "A")
	require.NoError(t, err)
	pac := a.FindItem("A", "pac")
	a.AddFavorite(pac)
	require.NoError(t, b.SaveFavorites(ctx, a, nil))
	assert.Equal(t, "_A:pac\n", f.read(shared))

	bc, err := b.Load(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, 0, bc.Playlist(collection.PlaylistFavorites).Len())
	bc.AddFavorite(bc.FindItem("B", "dig"))
	require.NoError(t, b.SaveFavorites(ctx, bc, nil))
	assert.Equal(t, "_A:pac\n_B:dig\n", f.read(shared))

	bc.SaveRequest = true
	require.NoError(t, b.SaveFavorites(ctx, bc, nil))
	assert.Equal(t, "_A:pac\n_B:dig\n", f.read(shared))

	a.RemoveFavorite(pac)
	require.NoError(t, b.SaveFavorites(ctx, a, pac))
	assert.Equal(t, "_B:dig\n", f.read(shared))

	a, err = b.Load(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Playlist(collection.PlaylistFavorites).Len())
	bc, err = b.Load(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"dig"}, names(bc.Playlist(collection.PlaylistFavorites).Items()))
	assert.True(t, bc.FindItem("B", "dig").IsFavorite)
}

func TestGlobalFavoritesIgnoreLocalFiles(t *testing.T) {
	f := newFixture(t)
	f.roms("A", "pac.zip", "dig.zip")
	f.props.Set("globalFavLast", "yes")
	f.write("collections/A/playlists/favorites.txt", "dig\n")
	f.write("collections/A/playlists/custom.txt", "dig\n")
	f.write("collections/Favorites/playlists/favorites.txt", "_A:pac\n")

	a, err := f.builder().Load(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"pac"}, names(a.Playlist(collection.PlaylistFavorites).Items()))
	assert.Equal(t, []string{"dig"}, names(a.Playlist("custom").Items()))
	assert.False(t, a.FindItem("A", "dig").IsFavorite)
}

func TestGlobalFavoritesAppendAfterUnterminatedLine(t *testing.T) {
	f := newFixture(t)
	f.roms("A", "pac.zip", "dig.zip")
	f.props.Set("globalFavLast", "true")
	shared := "collections/Favorites/playlists/favorites.txt"
	f.write(shared, "_A:pac")
	b := f.builder()
	ctx := context.Background()

	a, err := b.Load(ctx, "A")
	require.NoError(t, err)
	a.AddFavorite(a.FindItem("A", "dig"))
	require.NoError(t, b.SaveFavorites(ctx, a, nil))
	assert.Equal(t, "_A:pac\n_A:dig\n", f.read(shared))
}
