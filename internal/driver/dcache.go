package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"layercheck/internal/diag"
	"layercheck/internal/project"
	"layercheck/internal/source"
)

// bump whenever ExpansionPayload changes shape
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты раскрытия макросов по файлам на диске.
// Pass 2 workers share one cache.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// ExpansionPayload is what pass 2 produced for one file.
type ExpansionPayload struct {
	Schema uint16

	Text  string
	Edits []CachedEdit
	// Diagnostics of the expansion, spans without the file id
	Diags []CachedDiag
}

// CachedEdit mirrors source.Edit.
type CachedEdit struct {
	Offset int
	Delta  int
}

// CachedDiag is a diagnostic located in the file the payload belongs to.
type CachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

// OpenDiskCache opens the cache of app under the user cache directory.
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первому байту, чтобы не держать всё в одной директории
	return filepath.Join(c.dir, "expand", hexKey[:2], hexKey+".mp")
}

// Put stores payload under key. The file is written aside and renamed into
// place, so readers never see half of it.
func (c *DiskCache) Put(key project.Digest, payload *ExpansionPayload) (err error) {
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
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the payload stored under key. A payload of another schema
// version is a miss.
func (c *DiskCache) Get(key project.Digest, out *ExpansionPayload) (bool, error) {
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
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll empties the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// сначала убираем каталог с дороги, потом удаляем
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

func newPayload(text string, edits []source.Edit, bag *diag.Bag) *ExpansionPayload {
	p := &ExpansionPayload{Text: text}
	for _, e := range edits {
		p.Edits = append(p.Edits, CachedEdit(e))
	}
	for _, d := range bag.Items() {
		p.Diags = append(p.Diags, CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return p
}

// restore replays a payload for file id.
func (p *ExpansionPayload) restore(id source.FileID, bag *diag.Bag) (string, []source.Edit) {
	edits := make([]source.Edit, len(p.Edits))
	for i, e := range p.Edits {
		edits[i] = source.Edit(e)
	}
	for _, d := range p.Diags {
		bag.Add(diag.New(diag.Severity(d.Severity), diag.Code(d.Code),
			source.Span{File: id, Start: d.Start, End: d.End}, d.Message))
	}
	return p.Text, edits
}
