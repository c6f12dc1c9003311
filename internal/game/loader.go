package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader reads every *.yaml file of a data directory and merges them in name order.
type Loader struct {
	dir string

	mu    sync.RWMutex
	cache *Catalog
	files []string
}

// NewLoader creates a catalog loader for the given data directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) Dir() string { return l.dir }

// Files lists the YAML files of the last successful load.
func (l *Loader) Files() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.files...)
}

// Load returns the cached catalog or reads, merges and validates the data directory.
func (l *Loader) Load() (*Catalog, error) {
	l.mu.RLock()
	if l.cache != nil {
		cat := l.cache
		l.mu.RUnlock()
		return cat, nil
	}
	l.mu.RUnlock()

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files in %s", l.dir)
	}

	var merged Catalog
	for _, f := range files {
		part, err := readYAML(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(f), err)
		}
		merged = mergeCatalog(merged, part)
	}
	if err := ValidateCatalog(merged); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache = &merged
	l.files = files
	l.mu.Unlock()
	return &merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = nil
}

// Reload drops the cache and loads again.
func (l *Loader) Reload() (*Catalog, error) {
	l.Invalidate()
	return l.Load()
}

// readYAML decodes one catalog file, rejecting unknown fields. Empty files yield an empty catalog.
func readYAML(path string) (Catalog, error) {
	var cat Catalog
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Catalog{}, nil
		}
		return Catalog{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, err
	}
	return cat, nil
}

// mergeCatalog overlays b onto a: scalars override when set, list entries replace by name.
func mergeCatalog(a, b Catalog) Catalog {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	out.Weapons = mergeByName(a.Weapons, b.Weapons, func(w WeaponDef) string { return w.Name })
	out.Ammo = mergeByName(a.Ammo, b.Ammo, func(x AmmoDef) string { return x.Name })
	out.AttackTypes = mergeByName(a.AttackTypes, b.AttackTypes, func(x AttackType) string { return x.Name })
	out.Scopes = mergeByName(a.Scopes, b.Scopes, func(x ScopeDef) string { return x.Name })
	return out
}

func mergeByName[T any](a, b []T, name func(T) string) []T {
	out := append([]T(nil), a...)
	idx := make(map[string]int, len(out))
	for i, v := range out {
		idx[name(v)] = i
	}
	for _, v := range b {
		if i, ok := idx[name(v)]; ok {
			out[i] = v
			continue
		}
		idx[name(v)] = len(out)
		out = append(out, v)
	}
	return out
}
