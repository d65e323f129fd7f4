package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/video-context/internal/apperr"
	"github.com/nguyentantai21042004/video-context/internal/fingerprint"
	"github.com/nguyentantai21042004/video-context/internal/logger"
)

// mtimeTolerance absorbs float rounding in records written by other tools.
const mtimeTolerance = 0.001

type metaKey struct {
	filename string
	size     int64
}

type entry struct {
	path   string
	record Record
}

type implStore struct {
	dir    string
	logger logger.Logger

	byHash map[string]entry
	byMeta map[metaKey][]entry
	order  []entry
}

// Open creates dir if needed and indexes every JSON record inside it.
func Open(ctx context.Context, dir string, log logger.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &apperr.ConfigurationError{Path: dir, Err: fmt.Errorf("create context dir: %w", err)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &apperr.ConfigurationError{Path: dir, Err: fmt.Errorf("read context dir: %w", err)}
	}

	s := &implStore{
		dir:    dir,
		logger: log,
		byHash: make(map[string]entry),
		byMeta: make(map[metaKey][]entry),
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.ToLower(filepath.Ext(e.Name())) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		rec, err := readRecord(path)
		if err != nil {
			log.Warn(ctx, "Ignoring unreadable context file %s: %v", path, err)
			continue
		}
		if rec.VideoHash == "" && rec.VideoFilename == "" {
			log.Debug(ctx, "Ignoring %s: not a transcript record", path)
			continue
		}
		s.index(entry{path: path, record: rec})
	}

	log.Debug(ctx, "Ledger %s: %d records indexed", dir, len(s.order))
	return s, nil
}

func readRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// index keeps the first record seen for a hash; later duplicates stay reachable by metadata.
func (s *implStore) index(e entry) {
	if h := e.record.VideoHash; h != "" {
		if _, ok := s.byHash[h]; !ok {
			s.byHash[h] = e
		}
	}
	key := metaKey{filename: e.record.VideoFilename, size: e.record.VideoSize}
	s.byMeta[key] = append(s.byMeta[key], e)
	s.order = append(s.order, e)
}

func (s *implStore) Lookup(id fingerprint.Identity) (Record, Match, bool) {
	if id.ContentHash != "" {
		if e, ok := s.byHash[id.ContentHash]; ok {
			return e.record, Match{Kind: MatchHash, Path: e.path}, true
		}
	}

	e, ok := s.lookupMeta(id.Filename, id.Size, id.MtimeSeconds())
	if !ok {
		return Record{}, Match{}, false
	}
	conflict := id.ContentHash != "" && e.record.VideoHash != "" && e.record.VideoHash != id.ContentHash
	return e.record, Match{Kind: MatchMetadata, Path: e.path, Conflict: conflict}, true
}

func (s *implStore) lookupMeta(filename string, size int64, mtime float64) (entry, bool) {
	for _, e := range s.byMeta[metaKey{filename: filename, size: size}] {
		if math.Abs(e.record.VideoMtime-mtime) <= mtimeTolerance {
			return e, true
		}
	}
	return entry{}, false
}

func (s *implStore) Save(rec Record) (string, error) {
	if rec.VideoHash != "" {
		if e, ok := s.byHash[rec.VideoHash]; ok {
			return e.path, ErrAlreadyRecorded
		}
	} else if e, ok := s.lookupMeta(rec.VideoFilename, rec.VideoSize, rec.VideoMtime); ok {
		return e.path, ErrAlreadyRecorded
	}

	path, err := s.write(rec)
	if err != nil {
		return "", err
	}
	s.index(entry{path: path, record: rec})
	return path, nil
}

// write creates context-<timestamp>[-N].json exclusively.
func (s *implStore) write(rec Record) (string, error) {
	base := "context-" + rec.transcribedAt().Format("20060102150405")

	for n := 1; ; n++ {
		name := base + ".json"
		if n > 1 {
			name = fmt.Sprintf("%s-%d.json", base, n)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create record: %w", err)
		}

		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(rec); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("encode record: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("close record: %w", err)
		}
		return path, nil
	}
}

func (s *implStore) Records() []Record {
	out := make([]Record, 0, len(s.order))
	for _, e := range s.order {
		out = append(out, e.record)
	}
	return out
}

func (s *implStore) Dir() string {
	return s.dir
}
