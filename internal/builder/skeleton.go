package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xxxsen/retrolist/internal/fsx"
	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

var skeletonDirs = []string{
	"",
	"medium_artwork",
	"medium_artwork/artwork_back",
	"medium_artwork/artwork_front",
	"medium_artwork/bezel",
	"medium_artwork/logo",
	"medium_artwork/medium_back",
	"medium_artwork/medium_front",
	"medium_artwork/screenshot",
	"medium_artwork/screentitle",
	"medium_artwork/video",
	"roms",
	"system_artwork",
}

const includeTemplate = `# Add a list of files to show on the menu (one filename per line, without the extension).
# If no items are in this list then all files in the folder specified
# by settings.conf will be used
`

const excludeTemplate = `# Add a list of files to hide on the menu (one filename per line, without the extension).
`

const settingsTemplate = `# Uncomment and edit the following line to use a different ROM path.
#list.path = %s
list.includeMissingItems = false
list.extensions = zip
list.menuSort = yes

launcher = mame
#metadata.type = MAME
`

// CreateCollectionDirectory lays out a new collection. Existing files are left untouched.
func (b *Builder) CreateCollectionDirectory(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("create collection: empty name")
	}
	logger := logutil.GetLogger(ctx)
	root := b.layout.CollectionDir(name)

	for _, rel := range skeletonDirs {
		dir := filepath.Join(root, filepath.FromSlash(rel))
		if err := fsx.EnsureDir(dir); err != nil {
			return err
		}
		logger.Debug("folder ready", zap.String("dir", dir))
	}

	files := []struct {
		path    string
		content string
	}{
		{b.layout.IncludeFile(name), includeTemplate},
		{b.layout.ExcludeFile(name), excludeTemplate},
		{b.layout.SettingsFile(name), fmt.Sprintf(settingsTemplate, filepath.Join("collections", name, "roms"))},
		{b.layout.MenuFile(name), ""},
	}
	for _, f := range files {
		if listfile.Exists(f.path) {
			logger.Info("keep existing file", zap.String("file", f.path))
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("create %s: %w", f.path, err)
		}
		logger.Info("file created", zap.String("file", f.path))
	}
	return nil
}
