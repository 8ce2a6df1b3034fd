package objectmodel

import "fmt"

// Folder is a named group of requests inside a Collection. Folders do not
// nest (spec.md §3).
type Folder struct {
	Name     string     `json:"name" yaml:"name"`
	Requests []*Request `json:"requests" yaml:"requests"`
}

// NewFolder sanitizes name and returns a Folder, or ErrEmptyName if the
// sanitized name is empty.
func NewFolder(name string) (*Folder, error) {
	sanitized, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	return &Folder{Name: sanitized}, nil
}

// FindRequest returns the index of the request named name, or ErrNotFound.
func (f *Folder) FindRequest(name string) (int, error) {
	for i, r := range f.Requests {
		if r.Name == name {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// AddRequest appends req to the folder.
func (f *Folder) AddRequest(req *Request) {
	f.Requests = append(f.Requests, req)
}

// DeleteRequest removes the request at index, failing with ErrNotFound if
// out of range.
func (f *Folder) DeleteRequest(index int) error {
	if index < 0 || index >= len(f.Requests) {
		return fmt.Errorf("objectmodel: request index %d: %w", index, ErrNotFound)
	}
	f.Requests = append(f.Requests[:index:index], f.Requests[index+1:]...)
	return nil
}

// Rename sanitizes newName and applies it, failing with ErrEmptyName if the
// sanitized result is empty.
func (f *Folder) Rename(newName string) error {
	sanitized, err := ValidateName(newName)
	if err != nil {
		return err
	}
	f.Name = sanitized
	return nil
}
