package environment

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"latex-insight/internal/logger"
	"latex-insight/internal/syntax"
)

// Bump when stubPayload changes shape.
const stubCacheSchemaVersion uint16 = 1

// StubCache persists stub indexes on disk, keyed by the hash of the source
// they were computed from and the fingerprint of the resolver that computed
// them. It is safe for concurrent use; a nil cache is a
// valid no-op.
type StubCache struct {
	mu  sync.RWMutex
	dir string
}

type stubPayload struct {
	Schema    uint16
	Path      string
	NodeCount int
	IDs       []int32
	Names     []string
	Labels    []string
}

// OpenStubCache opens a cache rooted at dir. An empty dir selects
// $XDG_CACHE_HOME/latex-insight/stubs (or ~/.cache/...).
func OpenStubCache(dir string) (*StubCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to locate cache directory: %w", err)
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "latex-insight", "stubs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stub cache directory: %w", err)
	}
	return &StubCache{dir: dir}, nil
}

func (c *StubCache) pathFor(doc *syntax.Document, r *Resolver) string {
	source, settings := doc.Hash(), r.Fingerprint()
	sum := sha256.Sum256(append(source[:], settings[:]...))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".mp")
}

// Put writes idx, computed by r for doc, replacing any previous entry
// atomically.
func (c *StubCache) Put(doc *syntax.Document, r *Resolver, idx StubIndex) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := stubPayload{
		Schema:    stubCacheSchemaVersion,
		Path:      doc.Path,
		NodeCount: doc.Len(),
	}
	for _, env := range syntax.FindAll(doc.Root, syntax.KindEnvironment) {
		stub, ok := idx[env.ID]
		if !ok {
			continue
		}
		payload.IDs = append(payload.IDs, int32(env.ID))
		payload.Names = append(payload.Names, stub.Name)
		payload.Labels = append(payload.Labels, stub.Label)
	}

	p := c.pathFor(doc, r)
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create stub cache file: %w", err)
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode stubs: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the stubs stored for doc under the settings of r. A missing or
// stale entry reports false.
func (c *StubCache) Get(doc *syntax.Document, r *Resolver) (StubIndex, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(doc, r))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload stubPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("failed to decode stubs: %w", err)
	}
	if payload.Schema != stubCacheSchemaVersion || payload.NodeCount != doc.Len() ||
		len(payload.Names) != len(payload.IDs) || len(payload.Labels) != len(payload.IDs) {
		logger.Debug("discarding stale stub cache entry", logger.String("path", doc.Path))
		return nil, false, nil
	}

	idx := make(StubIndex, len(payload.IDs))
	for i, id := range payload.IDs {
		idx[syntax.NodeID(id)] = Stub{Name: payload.Names[i], Label: payload.Labels[i]}
	}
	return idx, true, nil
}

// Load returns the cached stubs for doc, computing and storing them with r
// on a miss. Cache failures fall back to the freshly computed index.
func (c *StubCache) Load(doc *syntax.Document, r *Resolver) StubIndex {
	idx, ok, err := c.Get(doc, r)
	if err != nil {
		logger.Warn("stub cache read failed", logger.String("path", doc.Path), logger.Err(err))
	}
	if ok {
		return idx
	}
	idx = r.BuildStubs(doc)
	if err := c.Put(doc, r, idx); err != nil {
		logger.Warn("stub cache write failed", logger.String("path", doc.Path), logger.Err(err))
	}
	return idx
}

// DropAll removes every cached entry.
func (c *StubCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
