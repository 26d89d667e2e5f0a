package playcount

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xxxsen/retrolist/internal/fsx"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Record is the persisted play history of one item.
type Record struct {
	PlayCount  int
	LastPlayed string
}

// Store reads and rewrites the play-count file, one "key;count;lastPlayed" line per item.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads every record. A missing or unreadable file yields an empty map.
func (s *Store) Load(ctx context.Context) map[string]Record {
	logger := logutil.GetLogger(ctx)
	out := make(map[string]Record)

	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("open play count file failed", zap.String("file", s.path), zap.Error(err))
		}
		return out
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, rec, ok := parseLine(line)
		if !ok {
			logger.Error("malformed play count line skipped",
				zap.String("file", s.path), zap.Int("line", lineNo))
			continue
		}
		out[key] = rec
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("read play count file failed", zap.String("file", s.path), zap.Error(err))
	}
	return out
}

// Save rewrites the whole file, keys in lexical order.
func (s *Store) Save(records map[string]Record) error {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		r := records[k]
		sb.WriteString(k)
		sb.WriteByte(';')
		sb.WriteString(strconv.Itoa(r.PlayCount))
		sb.WriteByte(';')
		sb.WriteString(r.LastPlayed)
		sb.WriteByte('\n')
	}
	if err := fsx.WriteFileAtomic(s.path, []byte(sb.String())); err != nil {
		return fmt.Errorf("save play counts: %w", err)
	}
	return nil
}

// Put merges one record into the file.
func (s *Store) Put(ctx context.Context, key string, rec Record) error {
	records := s.Load(ctx)
	records[key] = rec
	return s.Save(records)
}

// the key may itself contain ';' only before the last two separators.
func parseLine(line string) (string, Record, bool) {
	last := strings.LastIndexByte(line, ';')
	if last < 0 {
		return "", Record{}, false
	}
	mid := strings.LastIndexByte(line[:last], ';')
	if mid < 0 {
		return "", Record{}, false
	}
	key := line[:mid]
	if key == "" {
		return "", Record{}, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(line[mid+1 : last]))
	if err != nil || count < 0 {
		count = 0
	}
	lastPlayed := strings.TrimSpace(line[last+1:])
	if lastPlayed == "" {
		lastPlayed = "0"
	}
	return key, Record{PlayCount: count, LastPlayed: lastPlayed}, true
}
