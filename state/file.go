package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nmaupu/cocktails/errors"
)

const (
	ingredientsFile = "ingredients_state.json"
	overridesFile   = "cocktails_overrides.json"
)

// File stores state as two JSON documents under the data directory:
// ingredients_state.json and cocktails_overrides.json, each a plain
// name-to-bool map readable and editable by hand. Writes replace the
// document through a temp file and rename so readers never observe a
// half-written file. Missing or corrupt documents read as empty, the next
// write repairs them.
type File struct {
	mu  sync.Mutex
	dir string
}

// NewFile returns a file-backed store rooted at dir, creating dir if
// needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.WrapInvalid(nil, "state", "NewFile", "data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapFatal(err, "state", "NewFile", "create data directory")
	}
	return &File{dir: dir}, nil
}

// Dir returns the data directory the store writes under.
func (f *File) Dir() string { return f.dir }

// IngredientStates returns the availability map from disk.
func (f *File) IngredientStates(_ context.Context) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := readStateFile(filepath.Join(f.dir, ingredientsFile))
	if err != nil {
		return nil, errors.WrapTransient(err, "state", "IngredientStates", "read ingredient states")
	}
	return m, nil
}

// SetIngredientState records availability for one ingredient and rewrites
// the document.
func (f *File) SetIngredientState(_ context.Context, name string, available bool) error {
	if name == "" {
		return errors.WrapInvalid(nil, "state", "SetIngredientState", "ingredient name cannot be empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := filepath.Join(f.dir, ingredientsFile)
	m, err := readStateFile(path)
	if err != nil {
		return errors.WrapTransient(err, "state", "SetIngredientState", "read ingredient states")
	}
	m[name] = available
	if err := writeStateFile(path, m); err != nil {
		return errors.WrapTransient(err, "state", "SetIngredientState", "write ingredient states")
	}
	return nil
}

// Overrides returns the override map from disk.
func (f *File) Overrides(_ context.Context) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := readStateFile(filepath.Join(f.dir, overridesFile))
	if err != nil {
		return nil, errors.WrapTransient(err, "state", "Overrides", "read cocktail overrides")
	}
	return m, nil
}

// SetOverride forces a cocktail to the given enabled value and rewrites the
// document.
func (f *File) SetOverride(_ context.Context, name string, enabled bool) error {
	if name == "" {
		return errors.WrapInvalid(nil, "state", "SetOverride", "cocktail name cannot be empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := filepath.Join(f.dir, overridesFile)
	m, err := readStateFile(path)
	if err != nil {
		return errors.WrapTransient(err, "state", "SetOverride", "read cocktail overrides")
	}
	m[name] = enabled
	if err := writeStateFile(path, m); err != nil {
		return errors.WrapTransient(err, "state", "SetOverride", "write cocktail overrides")
	}
	return nil
}

// ClearOverride drops a manual override if the document records one.
func (f *File) ClearOverride(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := filepath.Join(f.dir, overridesFile)
	m, err := readStateFile(path)
	if err != nil {
		return errors.WrapTransient(err, "state", "ClearOverride", "read cocktail overrides")
	}
	if _, ok := m[name]; !ok {
		return nil
	}
	delete(m, name)
	if err := writeStateFile(path, m); err != nil {
		return errors.WrapTransient(err, "state", "ClearOverride", "write cocktail overrides")
	}
	return nil
}

// Ping verifies the data directory still exists and accepts writes.
func (f *File) Ping(_ context.Context) error {
	probe, err := os.CreateTemp(f.dir, ".ping-*")
	if err != nil {
		return errors.WrapTransient(err, "state", "Ping", "data directory not writable")
	}
	name := probe.Name()
	_ = probe.Close()
	if err := os.Remove(name); err != nil {
		return errors.WrapTransient(err, "state", "Ping", "clean up probe file")
	}
	return nil
}

// Close is a no-op, documents live on disk between calls.
func (f *File) Close() error { return nil }

func readStateFile(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]bool{}
	if err := json.Unmarshal(data, &m); err != nil {
		// Corrupt documents read as empty rather than wedging the menu.
		return map[string]bool{}, nil
	}
	return m, nil
}

func writeStateFile(path string, m map[string]bool) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
