// Package fingerprint derives the identity used to decide whether a video
// has already been transcribed.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	// sampleSize is hashed from each end of files larger than 2*sampleSize.
	sampleSize = 1 << 20
)

// Swappable so tests can simulate unreadable streams.
var openFile = func(path string) (io.ReadSeekCloser, error) { return os.Open(path) }

// Identity is the dedup key of a video file.
type Identity struct {
	Path        string
	Filename    string
	Size        int64
	ModTime     time.Time
	ContentHash string

	// Degraded is set when only metadata could be read; HashErr holds the cause.
	Degraded bool
	HashErr  error
}

// MtimeSeconds returns the modification time as fractional unix seconds.
func (id Identity) MtimeSeconds() float64 {
	return float64(id.ModTime.UnixNano()) / float64(time.Second)
}

// Fingerprint stats path and hashes its content. A stat failure is an error;
// a hashing failure yields a degraded, metadata-only identity.
func Fingerprint(path string) (Identity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Identity{}, fmt.Errorf("stat video: %w", err)
	}
	if info.IsDir() {
		return Identity{}, fmt.Errorf("stat video: %s is a directory", path)
	}

	id := Identity{
		Path:     path,
		Filename: filepath.Base(path),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}

	hash, err := hashFile(path, info.Size())
	if err != nil {
		id.Degraded = true
		id.HashErr = err
		return id, nil
	}
	id.ContentHash = hash
	return id, nil
}

// hashFile digests the whole file when small, otherwise its first and last sampleSize bytes.
func hashFile(path string, size int64) (string, error) {
	f, err := openFile(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if size <= 2*sampleSize {
		if _, err := io.Copy(h, f); err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	}

	if _, err := io.CopyN(h, f, sampleSize); err != nil {
		return "", fmt.Errorf("read head: %w", err)
	}
	if _, err := f.Seek(-sampleSize, io.SeekEnd); err != nil {
		return "", fmt.Errorf("seek tail: %w", err)
	}
	if _, err := io.CopyN(h, f, sampleSize); err != nil {
		return "", fmt.Errorf("read tail: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
