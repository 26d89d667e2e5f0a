package listfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/retrolist/internal/fsx"
)

const utf8BOM = "\ufeff"

// List is an ordered set of entries read from a line-oriented list file.
type List struct {
	entries []string
	index   map[string]struct{}
}

// NewList builds a list from entries, dropping duplicates while keeping first-seen order.
func NewList(entries ...string) *List {
	l := &List{index: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		l.Add(e)
	}
	return l
}

// Add appends entry unless it is already present.
func (l *List) Add(entry string) bool {
	if _, ok := l.index[entry]; ok {
		return false
	}
	l.index[entry] = struct{}{}
	l.entries = append(l.entries, entry)
	return true
}

func (l *List) Has(entry string) bool {
	if l == nil {
		return false
	}
	_, ok := l.index[entry]
	return ok
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *List) Empty() bool { return l.Len() == 0 }

// Entries returns the entries in file order.
func (l *List) Entries() []string {
	if l == nil {
		return nil
	}
	return l.entries
}

// CleanLine removes everything from the first '#', carriage returns and surrounding blanks.
func CleanLine(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.ReplaceAll(line, "\r", "")
	return strings.TrimSpace(line)
}

// Read loads path into a List. A missing file yields an empty list and a nil error.
func Read(path string) (*List, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return NewList(), err
	}
	return NewList(lines...), nil
}

// ReadLines returns the cleaned, non-empty lines of path in order, duplicates included.
// A missing file yields no lines and a nil error.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open list %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		raw := scanner.Text()
		if first {
			raw = strings.TrimPrefix(raw, utf8BOM)
			first = false
		}
		line := CleanLine(raw)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list %s: %w", path, err)
	}
	return out, nil
}

// Exists reports whether path exists as a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Write replaces path with one line per entry.
func Write(path string, lines []string) error {
	return fsx.WriteFileAtomic(path, []byte(join(lines)))
}

// Append adds lines to the end of path.
func Append(path string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	return fsx.AppendFile(path, []byte(join(lines)))
}

func join(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
