package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/xxxsen/retrolist/internal/builder"
	"github.com/xxxsen/retrolist/internal/collection"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ListCommand prints the items of a collection or of one of its playlists.
type ListCommand struct {
	collection string
	playlist   string
	playlists  bool
	letters    bool

	out     io.Writer
	builder *builder.Builder
}

func NewListCommand() *ListCommand { return &ListCommand{out: os.Stdout} }

func (c *ListCommand) Name() string { return "list" }

func (c *ListCommand) Desc() string { return "加载合集并列出条目或播放列表" }

func (c *ListCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.collection, "collection", "", "collection name")
	fst.StringVar(&c.playlist, "playlist", "", "playlist to print, defaults to the master item list")
	fst.BoolVar(&c.playlists, "playlists", false, "print playlist names in cycle order instead of items")
	fst.BoolVar(&c.letters, "letters", false, "print the letter jump targets of the playlist instead of items")
}

func (c *ListCommand) PreRun(ctx context.Context, env *Env) error {
	if c.collection == "" {
		return errors.New("list requires --collection")
	}
	c.builder = env.Builder(ctx)
	return nil
}

func (c *ListCommand) Run(ctx context.Context) error {
	coll, err := c.builder.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	if c.playlists {
		for _, m := range coll.PlaylistMenu() {
			if _, err := fmt.Fprintln(c.out, m.Name); err != nil {
				return err
			}
		}
		return nil
	}

	items := coll.Items()
	if c.playlist != "" || c.letters {
		name := c.playlist
		if name == "" {
			name = collection.PlaylistAll
		}
		p := coll.Playlist(name)
		if p == nil {
			return fmt.Errorf("playlist %s not found in collection %s", name, c.collection)
		}
		if c.letters {
			return writeLetters(c.out, p)
		}
		items = p.Items()
	}
	logutil.GetLogger(ctx).Debug("list items",
		zap.String("collection", c.collection), zap.String("playlist", c.playlist), zap.Int("count", len(items)))
	return writeItems(c.out, items)
}

func writeLetters(out io.Writer, p *collection.Playlist) error {
	items := p.Items()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, g := range p.LetterGroups() {
		letter := g.Letter
		if letter == "" {
			letter = "#"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", letter, g.Index, items[g.Index].FullTitle)
	}
	return w.Flush()
}

func writeItems(out io.Writer, items []*collection.Item) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, it := range items {
		if !it.Leaf {
			fmt.Fprintf(w, "+\t%s\t\t\t\t\n", it.FullTitle)
			continue
		}
		fav := ""
		if it.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			fav, it.Ref().Key(), it.FullTitle, it.Year, strconv.Itoa(it.PlayCount), it.LastPlayed)
	}
	return w.Flush()
}

func (c *ListCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("list", func() IRunner { return NewListCommand() })
}
