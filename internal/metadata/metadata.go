// Package metadata reads frontend metadata files (EmulationStation gamelist.xml
// and Pegasus metadata.pegasus.txt) into a common Game record.
package metadata

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format names a metadata file dialect.
type Format string

const (
	FormatGamelist Format = "gamelist"
	FormatPegasus  Format = "pegasus"
)

var ErrUnknownFormat = errors.New("unknown metadata format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatGamelist, FormatPegasus:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Game is the descriptive data of one game, keyed by the rom base name.
type Game struct {
	Name        string
	Title       string
	Year        string
	Developer   string
	Publisher   string
	Genre       string
	Players     string
	Rating      string
	Description string
}

// ReadFile dispatches on format.
func ReadFile(path string, format Format) ([]Game, error) {
	switch format {
	case FormatGamelist:
		return ReadGamelist(path)
	case FormatPegasus:
		return ReadPegasus(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// romName turns a rom path like "./roms/Sonic (USA).zip" into "Sonic (USA)".
func romName(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	base := filepath.Base(filepath.FromSlash(p))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}

// releaseYear takes the year out of "19910623T000000", "1991-06-23" or "1991".
func releaseYear(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return ""
	}
	for _, r := range s[:4] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s[:4]
}
