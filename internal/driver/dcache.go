package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"linkdiag/internal/diag"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// CacheKey identifies one classified log: the parser that classified it and
// the hash of the decoded content.
type CacheKey [32]byte

// NewCacheKey derives the cache key for parserID over content with hash contentHash.
func NewCacheKey(parserID string, contentHash [32]byte) CacheKey {
	h := sha256.New()
	_, _ = h.Write([]byte(parserID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(contentHash[:])
	var out CacheKey
	copy(out[:], h.Sum(nil))
	return out
}

// DiskCache stores classified diagnostics per log on disk.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskRecord is the cached form of a single diagnostic. Origin is not
// stored: the same content may be read from different paths.
type DiskRecord struct {
	Severity  uint8
	Category  string
	Message   string
	LineStart uint32
	LineEnd   uint32
	FileName  string
}

// DiskPayload stores the classification result of one log.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Parser  string
	Records []DiskRecord
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "logs", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// after a successful rename the temp file is already gone
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err = enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads written
// under another schema version are reported as misses.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// diagsToPayload converts classified diagnostics to their cached form.
func diagsToPayload(parserID string, diags []diag.Diagnostic) (*DiskPayload, error) {
	payload := &DiskPayload{
		Schema:  diskCacheSchemaVersion,
		Parser:  parserID,
		Records: make([]DiskRecord, len(diags)),
	}
	for i, d := range diags {
		start, err := safecast.Conv[uint32](d.LineStart)
		if err != nil {
			return nil, fmt.Errorf("line start: %w", err)
		}
		end, err := safecast.Conv[uint32](d.LineEnd)
		if err != nil {
			return nil, fmt.Errorf("line end: %w", err)
		}
		payload.Records[i] = DiskRecord{
			Severity:  uint8(d.Severity),
			Category:  d.Category,
			Message:   d.Message,
			LineStart: start,
			LineEnd:   end,
			FileName:  d.FileName,
		}
	}
	return payload, nil
}

// payloadToDiags restores diagnostics from a payload; nil when the schema
// or parser does not match or any record is malformed.
func payloadToDiags(parserID string, payload *DiskPayload) []diag.Diagnostic {
	if payload == nil || payload.Schema != diskCacheSchemaVersion || payload.Parser != parserID {
		return nil
	}
	out := make([]diag.Diagnostic, len(payload.Records))
	known := diag.Severities()
	for i, r := range payload.Records {
		d := diag.Diagnostic{
			Severity:  diag.Severity(r.Severity),
			Category:  r.Category,
			Message:   r.Message,
			LineStart: int(r.LineStart),
			LineEnd:   int(r.LineEnd),
			FileName:  r.FileName,
		}
		if !slices.Contains(known, d.Severity) || !d.Valid() {
			return nil
		}
		out[i] = d
	}
	return out
}
