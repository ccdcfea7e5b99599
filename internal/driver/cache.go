package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"cslayout/internal/diag"
	"cslayout/internal/layout"
	"cslayout/internal/rules"
	"cslayout/internal/source"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest is a sha256 cache key.
type Digest [32]byte

// Cache хранит результаты проверки неизменённых файлов на диске.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is what one cache entry holds: the violations of one file.
type CachePayload struct {
	Schema     uint16
	Violations []cachedViolation
}

type cachedViolation struct {
	RuleID   string
	Severity uint8
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
	Fix      *cachedFix
}

type cachedNote struct {
	Start, End uint32
	Msg        string
}

type cachedFix struct {
	Title      string
	Priority   int
	Start, End uint32
	NewText    string
	OldText    string
}

// OpenCache initializes and returns a disk cache at the standard location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewCache(filepath.Join(base, app))
}

// NewCache uses dir as the cache root.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// ConfigDigest fingerprints everything besides the file content that changes
// the result of a check.
func ConfigDigest(set *rules.Set, opts layout.Options) uint64 {
	h := xxhash.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], cacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.WriteString(set.String())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(opts.String())
	return h.Sum64()
}

// CacheKey: H(content hash || config digest).
func CacheKey(content [32]byte, config uint64) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], config)
	_, _ = h.Write(buf[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первому байту, чтобы не держать тысячи файлов в одном месте
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *Cache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Entries of an
// older schema count as misses.
func (c *Cache) Get(key Digest, out *CachePayload) (bool, error) {
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
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == cacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
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

func toPayload(vs []diag.Violation) *CachePayload {
	out := &CachePayload{Violations: make([]cachedViolation, 0, len(vs))}
	for _, v := range vs {
		cv := cachedViolation{
			RuleID:   v.RuleID,
			Severity: uint8(v.Severity),
			Message:  v.Message,
			Start:    v.Primary.Start,
			End:      v.Primary.End,
		}
		for _, n := range v.Notes {
			cv.Notes = append(cv.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		if v.Fix != nil {
			cv.Fix = &cachedFix{
				Title:    v.Fix.Title,
				Priority: v.Fix.Priority,
				Start:    v.Fix.Edit.Span.Start,
				End:      v.Fix.Edit.Span.End,
				NewText:  v.Fix.Edit.NewText,
				OldText:  v.Fix.Edit.OldText,
			}
		}
		out.Violations = append(out.Violations, cv)
	}
	return out
}

// fromPayload rebinds cached offsets to the file id of this run.
func fromPayload(p *CachePayload, file source.FileID) []diag.Violation {
	span := func(start, end uint32) source.Span { return source.Span{File: file, Start: start, End: end} }
	out := make([]diag.Violation, 0, len(p.Violations))
	for _, cv := range p.Violations {
		v := diag.Violation{
			RuleID:   cv.RuleID,
			Severity: diag.Severity(cv.Severity),
			Message:  cv.Message,
			Primary:  span(cv.Start, cv.End),
		}
		for _, n := range cv.Notes {
			v.Notes = append(v.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
		}
		if cv.Fix != nil {
			v.Fix = &diag.Fix{
				Title:    cv.Fix.Title,
				Priority: cv.Fix.Priority,
				Edit: diag.TextEdit{
					Span:    span(cv.Fix.Start, cv.Fix.End),
					NewText: cv.Fix.NewText,
					OldText: cv.Fix.OldText,
				},
			}
		}
		out = append(out, v)
	}
	return out
}
