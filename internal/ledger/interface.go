package ledger

import (
	"errors"

	"github.com/nguyentantai21042004/video-context/internal/fingerprint"
)

// ErrAlreadyRecorded is returned by Save when the record's identity is already in the ledger.
var ErrAlreadyRecorded = errors.New("ledger: video already recorded")

// Store is the transcript ledger of one context directory.
type Store interface {
	// Lookup finds the record for id, by content hash first and by
	// (filename, size, mtime) second.
	Lookup(id fingerprint.Identity) (Record, Match, bool)
	// Save writes rec as a new JSON document and returns its path. It never
	// overwrites an existing file.
	Save(rec Record) (string, error)
	// Records returns every indexed record, loaded ones first, in file name order.
	Records() []Record
	Dir() string
}

type MatchKind string

const (
	MatchHash     MatchKind = "hash"
	MatchMetadata MatchKind = "metadata"
)

// Match describes how Lookup resolved an identity.
type Match struct {
	Kind MatchKind
	Path string
	// Conflict is set on a metadata match whose recorded hash differs from the identity's.
	Conflict bool
}
