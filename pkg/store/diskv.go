package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// ErrNotFound is returned by Read when the slot has never been written.
var ErrNotFound = errors.New("store: slot not found")

// Config locates the on-disk store.
type Config interface {
	BasePath() string
}

// Persistence is a flat key-value store of named slots. Each slot holds one
// opaque document that is overwritten wholesale on every write.
type Persistence interface {
	Read(slot string) ([]byte, error)
	Write(slot string, data []byte) error
	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	slotExt    = ".json"
	tempDirRel = ".tmp"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDirRel),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Read(slot string) ([]byte, error) {
	slot, err := validSlot(slot)
	if err != nil {
		return nil, err
	}
	// Direct reads skip diskv's cache; other processes write the same files.
	rc, err := p.d.ReadStream(slot, true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", slot, err)
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", slot, err)
	}
	return val, nil
}

// Write replaces the slot contents. diskv stages the document in TempDir and
// renames it into place, so readers never observe a partial write.
func (p *persistence) Write(slot string, data []byte) error {
	slot, err := validSlot(slot)
	if err != nil {
		return err
	}
	if err := p.d.Write(slot, data); err != nil {
		return fmt.Errorf("store: write %s: %w", slot, err)
	}
	return nil
}

func validSlot(slot string) (string, error) {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return "", errors.New("store: slot name required")
	}
	if strings.ContainsAny(slot, `/\`) || strings.HasPrefix(slot, ".") {
		return "", fmt.Errorf("store: invalid slot name %q", slot)
	}
	return slot, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: s + slotExt,
	}
}

// pathToKeyTransform yields "" for anything that is not a slot document, such
// as staged files in the temp directory.
func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) > 0 || !strings.HasSuffix(pathKey.FileName, slotExt) {
		return ""
	}
	return strings.TrimSuffix(pathKey.FileName, slotExt)
}

// slotForPath maps a file under the base path back to its slot name. Files in
// the temp directory and other dot-files are ignored.
func (p *persistence) slotForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	if strings.Contains(rel, string(os.PathSeparator)) || strings.HasPrefix(rel, ".") {
		return ""
	}
	if !strings.HasSuffix(rel, slotExt) {
		return ""
	}
	return strings.TrimSuffix(rel, slotExt)
}
