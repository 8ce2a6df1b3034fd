package objectmodel

import "fmt"

// KeyValue is an enabled-flagged key/value pair used for query params,
// headers, and form/multipart body entries (spec.md §3 Glossary).
type KeyValue struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Key     string `json:"key" yaml:"key"`
	Value   string `json:"value" yaml:"value"`
}

// KeyValueList is an ordered list of KeyValue entries. Duplicate keys are
// allowed (spec.md §3). It carries the generic CRUD operations that
// original_source/src/app/request/key_value_crud.rs shares across params,
// headers, and body entries.
type KeyValueList []KeyValue

// Find returns the index of the first entry whose key equals key, or
// ErrNotFound.
func (l KeyValueList) Find(key string) (int, error) {
	for i, kv := range l {
		if kv.Key == key {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// Modify sets the value (or key, depending on column) of the entry at row.
// column 0 modifies the key, column 1 modifies the value, matching the
// two-column KeyValue table the TUI/CLI edit against.
func (l KeyValueList) Modify(row, column int, value string) error {
	if row < 0 || row >= len(l) {
		return fmt.Errorf("objectmodel: row %d: %w", row, ErrNotFound)
	}
	switch column {
	case 0:
		l[row].Key = value
	case 1:
		l[row].Value = value
	default:
		return fmt.Errorf("objectmodel: invalid column %d", column)
	}
	return nil
}

// Create appends a new enabled entry and returns the updated list.
func (l KeyValueList) Create(key, value string) KeyValueList {
	return append(l, KeyValue{Enabled: true, Key: key, Value: value})
}

// Delete removes the entry at row and returns the updated list.
func (l KeyValueList) Delete(row int) (KeyValueList, error) {
	if row < 0 || row >= len(l) {
		return l, fmt.Errorf("objectmodel: row %d: %w", row, ErrNotFound)
	}
	return append(l[:row:row], l[row+1:]...), nil
}

// Toggle flips (or sets, when state is non-nil) the Enabled flag of the
// entry at row.
func (l KeyValueList) Toggle(row int, state *bool) error {
	if row < 0 || row >= len(l) {
		return fmt.Errorf("objectmodel: row %d: %w", row, ErrNotFound)
	}
	if state != nil {
		l[row].Enabled = *state
	} else {
		l[row].Enabled = !l[row].Enabled
	}
	return nil
}

// Duplicate clones the entry at row and inserts the copy immediately after
// it, returning the updated list.
func (l KeyValueList) Duplicate(row int) (KeyValueList, error) {
	if row < 0 || row >= len(l) {
		return l, fmt.Errorf("objectmodel: row %d: %w", row, ErrNotFound)
	}
	clone := l[row]
	out := make(KeyValueList, 0, len(l)+1)
	out = append(out, l[:row+1]...)
	out = append(out, clone)
	out = append(out, l[row+1:]...)
	return out, nil
}

// Enabled returns only the entries whose Enabled flag is true, preserving
// order. Used by the builder when applying headers/params/form-body
// entries (spec.md §4.4 item 10: "disabled ones skipped").
func (l KeyValueList) Enabled() KeyValueList {
	out := make(KeyValueList, 0, len(l))
	for _, kv := range l {
		if kv.Enabled {
			out = append(out, kv)
		}
	}
	return out
}
