package metadata

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

type pegasusBlock struct {
	kind    string
	entries map[string][]string
}

func (b *pegasusBlock) value(keys ...string) string {
	for _, k := range keys {
		if v, ok := b.entries[k]; ok {
			return strings.Join(v, "\n")
		}
	}
	return ""
}

// ReadPegasus parses the game blocks of a metadata.pegasus.txt file. A game
// without a file entry is keyed by its title.
func ReadPegasus(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var (
		blocks []*pegasusBlock
		block  *pegasusBlock
		last   string
		lineNo int
	)
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		if lineNo == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			last = ""
			continue
		}

		if unicode.IsSpace([]rune(raw)[0]) {
			if last == "" || block == nil {
				return nil, fmt.Errorf("metadata %s:%d: value without preceding key", path, lineNo)
			}
			if trimmed != "." {
				block.entries[last] = append(block.entries[last], trimmed)
			}
			continue
		}

		key, value, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("metadata %s:%d: expected key-value entry", path, lineNo)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "collection", "game":
			block = &pegasusBlock{kind: key, entries: map[string][]string{}}
			blocks = append(blocks, block)
		case "":
			return nil, fmt.Errorf("metadata %s:%d: invalid entry name", path, lineNo)
		default:
			if block == nil {
				return nil, fmt.Errorf("metadata %s:%d: entry %s must belong to collection or game", path, lineNo, key)
			}
		}
		if value != "" {
			block.entries[key] = append(block.entries[key], value)
		} else if _, ok := block.entries[key]; !ok {
			block.entries[key] = nil
		}
		last = key
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan metadata %s: %w", path, err)
	}

	var games []Game
	for _, b := range blocks {
		if b.kind != "game" {
			continue
		}
		title := b.value("game")
		name := title
		if files := b.entries["file"]; len(files) > 0 {
			name = romName(files[0])
		} else if files := b.entries["files"]; len(files) > 0 {
			name = romName(files[0])
		}
		if name == "" {
			continue
		}
		games = append(games, Game{
			Name:        name,
			Title:       title,
			Year:        releaseYear(b.value("release")),
			Developer:   joinCSV(b.entries["developer"], b.entries["developers"]),
			Publisher:   joinCSV(b.entries["publisher"], b.entries["publishers"]),
			Genre:       joinCSV(b.entries["genre"], b.entries["genres"]),
			Players:     b.value("players"),
			Rating:      strings.TrimSuffix(b.value("rating"), "%"),
			Description: b.value("description", "summary"),
		})
	}
	return games, nil
}

func joinCSV(lists ...[]string) string {
	var out []string
	for _, values := range lists {
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return strings.Join(out, ", ")
}
