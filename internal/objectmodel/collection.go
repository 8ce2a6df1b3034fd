package objectmodel

import (
	"fmt"
	"sync"
)

// CollectionFormat names the on-disk serialization a Collection uses.
type CollectionFormat string

const (
	FormatJSON CollectionFormat = "json"
	FormatYAML CollectionFormat = "yaml"
	FormatHTTP CollectionFormat = "http"
)

// Collection is a named container persisted as one file: an ordered list of
// folders, an ordered list of root-level requests, and an optional list of
// collection-scoped environments (spec.md §3 "Collection").
//
// A Collection is the ownership root for its requests and scoped
// environments. External viewers hold shared read-mostly references; a
// per-request exclusive-write capability is obtained through the helpers in
// internal/persistence and internal/orchestrator, not by mutating these
// fields directly from multiple goroutines.
type Collection struct {
	mu sync.RWMutex

	Name     string            `json:"name" yaml:"name"`
	Format   CollectionFormat  `json:"-" yaml:"-"`
	Path     string            `json:"-" yaml:"-"`
	Position *int              `json:"last_position,omitempty" yaml:"last_position,omitempty"`
	Folders  []*Folder         `json:"folders" yaml:"folders"`
	Requests []*Request        `json:"requests" yaml:"requests"`
	Environments []*Environment `json:"environments,omitempty" yaml:"environments,omitempty"`

	// SelectedEnvironment names the currently-selected collection-scoped
	// environment, or "" if none is selected.
	SelectedEnvironment string `json:"selected_environment,omitempty" yaml:"selected_environment,omitempty"`
}

// NewCollection sanitizes name and returns an empty Collection in the given
// format, or ErrEmptyName.
func NewCollection(name string, format CollectionFormat) (*Collection, error) {
	sanitized, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	return &Collection{Name: sanitized, Format: format}, nil
}

// Lock/Unlock/RLock/RUnlock expose the collection's mutex to callers in
// internal/persistence and internal/orchestrator that need to hold a
// write capability across a multi-field mutation plus a save-to-disk call.
func (c *Collection) Lock()    { c.mu.Lock() }
func (c *Collection) Unlock()  { c.mu.Unlock() }
func (c *Collection) RLock()   { c.mu.RLock() }
func (c *Collection) RUnlock() { c.mu.RUnlock() }

// Rename sanitizes newName and applies it without checking process-wide
// uniqueness; callers should check the Registry first.
func (c *Collection) Rename(newName string) error {
	sanitized, err := ValidateName(newName)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.Name = sanitized
	c.mu.Unlock()
	return nil
}

// FindFolder returns the index of the folder named name, or ErrNotFound.
func (c *Collection) FindFolder(name string) (int, error) {
	for i, f := range c.Folders {
		if f.Name == name {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// AddFolder appends folder, failing with ErrDuplicateName if a folder with
// that name already exists (spec.md §3 "folder names are unique within a
// collection").
func (c *Collection) AddFolder(folder *Folder) error {
	if _, err := c.FindFolder(folder.Name); err == nil {
		return fmt.Errorf("objectmodel: folder %q: %w", folder.Name, ErrDuplicateName)
	}
	c.Folders = append(c.Folders, folder)
	return nil
}

// DeleteFolder removes the folder at index.
func (c *Collection) DeleteFolder(index int) error {
	if index < 0 || index >= len(c.Folders) {
		return fmt.Errorf("objectmodel: folder index %d: %w", index, ErrNotFound)
	}
	c.Folders = append(c.Folders[:index:index], c.Folders[index+1:]...)
	return nil
}

// AddRequest appends req to the collection's root-level request list.
func (c *Collection) AddRequest(req *Request) {
	c.Requests = append(c.Requests, req)
}

// FindRequest returns the index of the root-level request named name, or
// ErrNotFound.
func (c *Collection) FindRequest(name string) (int, error) {
	for i, r := range c.Requests {
		if r.Name == name {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// DeleteRequest removes the root-level request at index.
func (c *Collection) DeleteRequest(index int) error {
	if index < 0 || index >= len(c.Requests) {
		return fmt.Errorf("objectmodel: request index %d: %w", index, ErrNotFound)
	}
	c.Requests = append(c.Requests[:index:index], c.Requests[index+1:]...)
	return nil
}

// DuplicateRequest clones the root-level request at index and inserts the
// clone immediately after it, with " copy" appended to its name to keep
// names distinguishable in the UI.
func (c *Collection) DuplicateRequest(index int) error {
	if index < 0 || index >= len(c.Requests) {
		return fmt.Errorf("objectmodel: request index %d: %w", index, ErrNotFound)
	}
	clone := c.Requests[index].Clone()
	clone.Name = clone.Name + " copy"
	out := make([]*Request, 0, len(c.Requests)+1)
	out = append(out, c.Requests[:index+1]...)
	out = append(out, clone)
	out = append(out, c.Requests[index+1:]...)
	c.Requests = out
	return nil
}

// Reorder moves the root-level request at fromIndex to toIndex, shifting the
// requests in between by one. It changes only the order of c.Requests:
// requests carry no position field of their own, and the collection's
// Position is left unchanged.
func (c *Collection) Reorder(fromIndex, toIndex int) error {
	if fromIndex < 0 || fromIndex >= len(c.Requests) {
		return fmt.Errorf("objectmodel: request index %d: %w", fromIndex, ErrNotFound)
	}
	if toIndex < 0 || toIndex >= len(c.Requests) {
		return fmt.Errorf("objectmodel: request index %d: %w", toIndex, ErrNotFound)
	}
	if fromIndex == toIndex {
		return nil
	}
	moved := c.Requests[fromIndex]
	without := append(append([]*Request{}, c.Requests[:fromIndex]...), c.Requests[fromIndex+1:]...)
	out := make([]*Request, 0, len(c.Requests))
	out = append(out, without[:toIndex]...)
	out = append(out, moved)
	out = append(out, without[toIndex:]...)
	c.Requests = out
	return nil
}

// SelectedScopedEnvironment returns the collection-scoped environment named
// by SelectedEnvironment, or nil if none is selected or the name no longer
// matches any environment.
func (c *Collection) SelectedScopedEnvironment() *Environment {
	if c.SelectedEnvironment == "" {
		return nil
	}
	for _, env := range c.Environments {
		if env.Name == c.SelectedEnvironment {
			return env
		}
	}
	return nil
}

// Registry tracks collection names across the running process, enforcing
// spec.md §3's invariant that "no two collections in a running process
// share a name". It follows the same RWMutex-guarded-map shape as the
// teacher's session.SessionManager.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{collections: make(map[string]*Collection)}
}

// Add registers coll, failing with ErrDuplicateName if its name is already
// taken.
func (reg *Registry) Add(coll *Collection) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.collections[coll.Name]; exists {
		return fmt.Errorf("objectmodel: collection %q: %w", coll.Name, ErrDuplicateName)
	}
	reg.collections[coll.Name] = coll
	return nil
}

// Remove unregisters the collection named name.
func (reg *Registry) Remove(name string) {
	reg.mu.Lock()
	delete(reg.collections, name)
	reg.mu.Unlock()
}

// Rename moves the registration for a collection from oldName to newName,
// failing with ErrDuplicateName if newName is already taken.
func (reg *Registry) Rename(oldName, newName string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	coll, exists := reg.collections[oldName]
	if !exists {
		return fmt.Errorf("objectmodel: collection %q: %w", oldName, ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, taken := reg.collections[newName]; taken {
		return fmt.Errorf("objectmodel: collection %q: %w", newName, ErrDuplicateName)
	}
	delete(reg.collections, oldName)
	reg.collections[newName] = coll
	return nil
}

// Get returns the collection named name, or ErrNotFound.
func (reg *Registry) Get(name string) (*Collection, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	coll, exists := reg.collections[name]
	if !exists {
		return nil, fmt.Errorf("objectmodel: collection %q: %w", name, ErrNotFound)
	}
	return coll, nil
}

// Count returns the number of registered collections.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.collections)
}

// Names returns all registered collection names, in no particular order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.collections))
	for name := range reg.collections {
		names = append(names, name)
	}
	return names
}
