package questions

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader handles loading question packs from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new pack loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all pack files.
// Returns packs sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Pack, error) {
	var packs []Pack

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		pack, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}

		packs = append(packs, pack)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(packs, func(i, j int) bool {
		return packs[i].ID < packs[j].ID
	})

	return packs, nil
}

// LoadFile loads a single pack file.
func (l *Loader) LoadFile(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	pack, err := ParseYAML(data)
	if err != nil {
		return Pack{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	pack.FilePath = path
	return pack, nil
}

// LoadByID loads a specific pack by ID.
func (l *Loader) LoadByID(id string) (Pack, error) {
	packs, err := l.LoadAll()
	if err != nil {
		return Pack{}, err
	}

	for _, p := range packs {
		if p.ID == id {
			return p, nil
		}
	}

	return Pack{}, fmt.Errorf("pack not found: %s", id)
}

// ListIDs returns all pack IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	packs, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(packs))
	for i, p := range packs {
		ids[i] = p.ID
	}
	return ids, nil
}

func isSupportedExtension(ext string) bool {
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
