package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nguyentantai21042004/video-context/internal/apperr"
)

// listVideos returns the specific video if configured, otherwise the
// supported videos of the videos directory, newest first.
func (p *implProcessor) listVideos(ctx context.Context) ([]string, error) {
	if p.cfg.SpecificVideoPath != "" {
		return p.checkVideoFile(p.cfg.SpecificVideoPath)
	}

	dir := p.cfg.Paths.Videos
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &apperr.InputError{Path: dir, Err: fmt.Errorf("videos directory not found: %w", err)}
		}
		return nil, &apperr.ConfigurationError{Path: dir, Err: fmt.Errorf("read videos directory: %w", err)}
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, e := range entries {
		name := e.Name()
		// "._" files are macOS resource forks, not videos
		if e.IsDir() || strings.HasPrefix(name, "._") || !p.cfg.IsSupported(name) {
			continue
		}
		path := filepath.Join(dir, name)

		info, err := e.Info()
		if err == nil && e.Type()&fs.ModeSymlink != 0 {
			info, err = os.Stat(path)
		}
		if err != nil {
			p.logger.Warn(ctx, "Skipping %s: %v", name, err)
			continue
		}
		if !info.Mode().IsRegular() {
			p.logger.Warn(ctx, "Skipping %s: not a regular file", name)
			continue
		}
		candidates = append(candidates, candidate{path: path, modTime: info.ModTime()})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].modTime.Equal(candidates[j].modTime) {
			return candidates[i].modTime.After(candidates[j].modTime)
		}
		return candidates[i].path < candidates[j].path
	})

	files := make([]string, 0, len(candidates))
	for _, c := range candidates {
		files = append(files, c.path)
	}
	return files, nil
}

func (p *implProcessor) checkVideoFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &apperr.InputError{Path: path, Err: fmt.Errorf("video file not found: %w", err)}
	}
	if info.IsDir() {
		return nil, &apperr.InputError{Path: path, Err: fmt.Errorf("video path is a directory")}
	}
	if !p.cfg.IsSupported(path) {
		return nil, &apperr.InputError{Path: path, Err: fmt.Errorf("not a supported video format")}
	}
	return []string{path}, nil
}
