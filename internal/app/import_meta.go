package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xxxsen/retrolist/internal/dat"
	"github.com/xxxsen/retrolist/internal/metadata"
	"github.com/xxxsen/retrolist/internal/metadb"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ImportMetaCommand loads a DAT or frontend metadata file into the metadata store.
type ImportMetaCommand struct {
	collection string
	file       string
	format     string
	replace    bool

	db *metadb.DB
}

func NewImportMetaCommand() *ImportMetaCommand { return &ImportMetaCommand{} }

func (c *ImportMetaCommand) Name() string { return "import-meta" }

func (c *ImportMetaCommand) Desc() string {
	return "导入 MAME/FBNeo DAT 或 gamelist/pegasus 元数据"
}

func (c *ImportMetaCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.collection, "collection", "", "metadata type to import into (a collection's metadata.type)")
	fst.StringVar(&c.file, "file", "", "file to import")
	fst.StringVar(&c.format, "format", "", "mame, fbneo, gamelist or pegasus")
	fst.BoolVar(&c.replace, "replace", false, "drop existing rows of the metadata type first")
}

func (c *ImportMetaCommand) PreRun(ctx context.Context, env *Env) error {
	if c.collection == "" || c.file == "" || c.format == "" {
		return errors.New("import-meta requires --collection, --file and --format")
	}
	c.format = strings.ToLower(strings.TrimSpace(c.format))
	db, err := env.MetaDB(ctx)
	if err != nil {
		return err
	}
	c.db = db
	return nil
}

func (c *ImportMetaCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	if c.replace {
		n, err := c.db.DeleteCollection(ctx, c.collection)
		if err != nil {
			return err
		}
		logger.Info("existing metadata dropped", zap.String("collection", c.collection), zap.Int64("rows", n))
	}

	var (
		rows int
		err  error
	)
	if f, ferr := dat.ParseFormat(c.format); ferr == nil {
		rows, err = c.db.ImportDat(ctx, c.collection, c.file, f)
	} else if f, ferr := metadata.ParseFormat(c.format); ferr == nil {
		rows, err = c.db.ImportMetadata(ctx, c.collection, c.file, f)
	} else {
		return fmt.Errorf("format %q not supported", c.format)
	}
	if err != nil {
		return err
	}
	logger.Info("import finished", zap.String("collection", c.collection), zap.Int("rows", rows))
	return nil
}

func (c *ImportMetaCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("import-meta", func() IRunner { return NewImportMetaCommand() })
}
