package collection

// AddFavorite marks it as a favorite and requests a save. It reports false when
// the item already was in the favorites playlist.
func (c *Collection) AddFavorite(it *Item) bool {
	fav := c.EnsurePlaylist(PlaylistFavorites)
	it.IsFavorite = true
	if fav.Contains(it) {
		return false
	}
	fav.Append(it)
	c.SortPlaylist(PlaylistFavorites)
	c.SaveRequest = true
	return true
}

// RemoveFavorite drops it from the favorites playlist and requests a save.
func (c *Collection) RemoveFavorite(it *Item) bool {
	it.IsFavorite = false
	fav := c.Playlist(PlaylistFavorites)
	if fav == nil || !fav.Remove(it) {
		return false
	}
	c.SaveRequest = true
	return true
}
