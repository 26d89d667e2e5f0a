package collection

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var pinyinArgs = pinyin.NewArgs()

// Letter is the jump group of the item: the first letter of its lowercase full
// title, the pinyin initial for Han characters, or "" for anything else.
func (it *Item) Letter() string {
	title := strings.TrimSpace(it.LowercaseFullTitle())
	for _, r := range title {
		if unicode.Is(unicode.Han, r) {
			if py := pinyin.LazyPinyin(string(r), pinyinArgs); len(py) > 0 && py[0] != "" {
				return py[0][:1]
			}
			return ""
		}
		if unicode.IsLetter(r) {
			return string(unicode.ToLower(r))
		}
		return ""
	}
	return ""
}

// NextLetter returns the index of the first item after pos, wrapping around,
// whose letter group differs from the item at pos. It returns pos when every
// item shares one group.
func (p *Playlist) NextLetter(pos int) int {
	items := p.Items()
	n := len(items)
	if n == 0 {
		return 0
	}
	pos = wrap(pos, n)
	start := items[pos].Letter()
	for i := 1; i < n; i++ {
		idx := wrap(pos+i, n)
		if items[idx].Letter() != start {
			return idx
		}
	}
	return pos
}

// PrevLetter returns the index of the first item of the letter group before
// the one holding pos.
func (p *Playlist) PrevLetter(pos int) int {
	items := p.Items()
	n := len(items)
	if n == 0 {
		return 0
	}
	pos = wrap(pos, n)
	start := items[pos].Letter()
	target := -1
	for i := 1; i < n; i++ {
		idx := wrap(pos-i, n)
		if items[idx].Letter() != start {
			target = idx
			break
		}
	}
	if target < 0 {
		return pos
	}
	group := items[target].Letter()
	for i := 1; i < n; i++ {
		idx := wrap(target-i, n)
		if items[idx].Letter() != group {
			return wrap(idx+1, n)
		}
	}
	return target
}

// LetterGroup is one jump target of a playlist.
type LetterGroup struct {
	Letter string
	Index  int
}

// LetterGroups follows NextLetter from the first item and returns every
// group start it reaches, in visiting order.
func (p *Playlist) LetterGroups() []LetterGroup {
	items := p.Items()
	if len(items) == 0 {
		return nil
	}
	visited := make(map[int]bool)
	var groups []LetterGroup
	for pos := 0; !visited[pos]; pos = p.NextLetter(pos) {
		visited[pos] = true
		groups = append(groups, LetterGroup{Letter: items[pos].Letter(), Index: pos})
	}
	return groups
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
