package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"segpub/internal/diag"
	"segpub/internal/source"
)

// Current schema version - increment when CachePayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты проверки отчётов на диске по хэшу содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is the stored outcome of checking one report.
type CachePayload struct {
	Schema uint16

	Path    string // for humans inspecting the cache; not used on lookup
	Records int
	Spans   [][2]uint32

	// Error is the syntax error message, empty for a valid report.
	Error       string
	Diagnostics []CachedDiagnostic
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
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

// OpenDiskCacheAt uses dir as the cache root.
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

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "reports", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachePayload) error {
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
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache.
// A payload of another schema version counts as a miss.
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
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
		return false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
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

// resultToPayload keeps the syntax outcome; cache warnings are not cached.
func resultToPayload(res *CheckResult) *CachePayload {
	payload := &CachePayload{
		Schema:  diskCacheSchemaVersion,
		Path:    res.File.Path,
		Records: res.Records,
		Spans:   make([][2]uint32, len(res.Spans)),
	}
	for i, sp := range res.Spans {
		payload.Spans[i] = [2]uint32{sp.Start, sp.End}
	}
	if res.Err != nil {
		payload.Error = res.Err.Error()
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.IOCacheError {
			continue
		}
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

// restorePayload fills res from a cache hit, re-anchoring spans on res.File.
func restorePayload(res *CheckResult, payload *CachePayload) error {
	id := res.File.ID
	size, err := safecast.Conv[uint32](len(res.File.Content))
	if err != nil {
		return err
	}
	span := func(start, end uint32) (source.Span, error) {
		if start > end || end > size {
			return source.Span{}, fmt.Errorf("cached span %d-%d outside %s", start, end, res.File.Path)
		}
		return source.Span{File: id, Start: start, End: end}, nil
	}

	res.Records = payload.Records
	res.Spans = make([]source.Span, 0, len(payload.Spans))
	for _, s := range payload.Spans {
		sp, err := span(s[0], s[1])
		if err != nil {
			return err
		}
		res.Spans = append(res.Spans, sp)
	}
	for _, cd := range payload.Diagnostics {
		primary, err := span(cd.Start, cd.End)
		if err != nil {
			return err
		}
		sev := diag.Severity(cd.Severity)
		if !sev.Valid() {
			return fmt.Errorf("cached diagnostic of %s has unknown severity %d", res.File.Path, cd.Severity)
		}
		d := diag.New(sev, diag.Code(cd.Code), primary, cd.Message)
		for _, n := range cd.Notes {
			nsp, err := span(n.Start, n.End)
			if err != nil {
				return err
			}
			d = d.WithNote(nsp, n.Msg)
		}
		res.Bag.Add(d)
	}
	if payload.Error != "" {
		res.Err = &CachedError{Msg: payload.Error}
	}
	res.Cached = true
	return nil
}

// CachedError stands in for the syntax error of a report whose result came
// from the cache: the typed lexer error is not persisted, only its text.
type CachedError struct {
	Msg string
}

func (e *CachedError) Error() string { return e.Msg }
