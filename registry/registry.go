// Package registry tracks the files and handles a trace touches. It maps
// file paths to a File entry (a monotone, mutex-guarded byte-count counter,
// per spec.md §5) and handle ids to the file key that owns them, the same
// shared-ownership-by-key idiom the teacher uses instead of a live
// back-reference (see markduplicates/duplicate_key.go).
//
// The registry is sharded by FarmHash of the file path so concurrent ingest
// workers can update different files' counters without contending on one
// lock; SeaHash of the same path is stored alongside as an independent
// cross-check, and FileFor reports an error when two distinct paths share a
// SeaHash. Within a shard files are keyed by their full path, so paths whose
// FarmHash collides share a shard lock but never a byte counter.
package registry

import (
	"sync"

	"blainsmith.com/go/seahash"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"

	"github.com/tracescope/tracescope/accesspattern"
)

const shardCount = 64

// File is one tracked file's mutable bookkeeping.
type File struct {
	Path string

	mu   sync.Mutex
	size uint64
}

// AddBytes grows the file's monotone size counter by delta, guarded by a
// mutex so concurrent write-producing ingest workers never race on it. The
// classifier itself never touches this counter (spec.md §5).
func (f *File) AddBytes(delta uint64) {
	f.mu.Lock()
	f.size += delta
	f.mu.Unlock()
}

// Size returns the current byte count.
func (f *File) Size() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

type shard struct {
	mu    sync.Mutex
	files map[string]*File
}

// Registry maps file paths and handle ids, sharded by FarmHash(path).
type Registry struct {
	shards  [shardCount]shard
	seaSeed uint64

	handleMu sync.Mutex
	handles  map[accesspattern.HandleID]string // handle -> owning file path
	seaCheck map[string]uint64                 // path -> seahash, for collision detection
}

// New returns an empty Registry.
func New() *Registry {
	r := &Registry{
		handles:  make(map[accesspattern.HandleID]string),
		seaCheck: make(map[string]uint64),
	}
	for i := range r.shards {
		r.shards[i].files = make(map[string]*File)
	}
	return r
}

func (r *Registry) shardFor(path string) *shard {
	h := farm.Hash64([]byte(path))
	return &r.shards[h%shardCount]
}

// FileFor returns the File entry for path, creating it on first use. On
// first use it also records path's SeaHash and returns an error, creating no
// entry, if another known path has the same SeaHash — practically
// impossible, but cheap to check given we already shard by an independent
// hash.
func (r *Registry) FileFor(path string) (*File, error) {
	s := r.shardFor(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[path]; ok {
		return f, nil
	}
	if err := r.checkSeaHash(path); err != nil {
		return nil, err
	}
	f := &File{Path: path}
	s.files[path] = f
	return f, nil
}

func (r *Registry) checkSeaHash(path string) error {
	r.handleMu.Lock()
	defer r.handleMu.Unlock()
	sum := seahash.Sum64([]byte(path))
	for known, knownSum := range r.seaCheck {
		if known != path && knownSum == sum {
			return errors.E("registry: seahash collision between distinct file paths", path, known)
		}
	}
	r.seaCheck[path] = sum
	return nil
}

// BindHandle records that handle belongs to the file at path.
func (r *Registry) BindHandle(handle accesspattern.HandleID, path string) {
	r.handleMu.Lock()
	defer r.handleMu.Unlock()
	r.handles[handle] = path
}

// FileForHandle looks up the file path a handle was bound to.
func (r *Registry) FileForHandle(handle accesspattern.HandleID) (string, bool) {
	r.handleMu.Lock()
	defer r.handleMu.Unlock()
	path, ok := r.handles[handle]
	return path, ok
}
