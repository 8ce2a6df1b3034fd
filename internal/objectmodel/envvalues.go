package objectmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EnvValues is an insertion-order-preserving string-to-string map, used for
// Environment.Values (spec.md §3: "Environment.Values must preserve
// insertion order across load/save round-trips"). A plain Go map cannot
// satisfy that property, so EnvValues keeps keys in a parallel slice
// alongside the value map.
type EnvValues struct {
	keys   []string
	values map[string]string
}

// NewEnvValues returns an empty EnvValues.
func NewEnvValues() *EnvValues {
	return &EnvValues{values: make(map[string]string)}
}

// Get returns the value for key and whether it was present.
func (e *EnvValues) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Set updates the value for an existing key, or appends a new key/value
// pair at the end of insertion order if key is not yet present.
func (e *EnvValues) Set(key, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Insert adds a new key/value pair, failing with ErrKeyAlreadyExists if the
// key is already present.
func (e *EnvValues) Insert(key, value string) error {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, exists := e.values[key]; exists {
		return fmt.Errorf("objectmodel: key %q: %w", key, ErrKeyAlreadyExists)
	}
	e.keys = append(e.keys, key)
	e.values[key] = value
	return nil
}

// Delete removes key, if present, preserving the order of the remaining
// keys.
func (e *EnvValues) Delete(key string) {
	if _, exists := e.values[key]; !exists {
		return
	}
	delete(e.values, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i:i], e.keys[i+1:]...)
			break
		}
	}
}

// RenameKey renames oldKey to newKey in place, preserving its position.
// Fails with ErrNotFound if oldKey is absent, or ErrKeyAlreadyExists if
// newKey is already taken by a different key.
func (e *EnvValues) RenameKey(oldKey, newKey string) error {
	v, ok := e.values[oldKey]
	if !ok {
		return fmt.Errorf("objectmodel: key %q: %w", oldKey, ErrNotFound)
	}
	if oldKey == newKey {
		return nil
	}
	if _, exists := e.values[newKey]; exists {
		return fmt.Errorf("objectmodel: key %q: %w", newKey, ErrKeyAlreadyExists)
	}
	delete(e.values, oldKey)
	e.values[newKey] = v
	for i, k := range e.keys {
		if k == oldKey {
			e.keys[i] = newKey
			break
		}
	}
	return nil
}

// Keys returns the keys in insertion order. The returned slice is owned by
// the caller; mutating it does not affect e.
func (e *EnvValues) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len reports the number of entries.
func (e *EnvValues) Len() int {
	return len(e.keys)
}

// MarshalJSON encodes the map as a JSON object whose keys appear in
// insertion order, so that a load/save round-trip is byte-stable modulo
// re-serialization (spec.md §8 property: environment round-trip preserves
// order).
func (e *EnvValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(e.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording the order keys appear in
// the source text using a streaming token decoder.
func (e *EnvValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("objectmodel: EnvValues: expected JSON object")
	}

	e.keys = nil
	e.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("objectmodel: EnvValues: non-string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("objectmodel: EnvValues: value for %q: %w", key, err)
		}
		if _, exists := e.values[key]; !exists {
			e.keys = append(e.keys, key)
		}
		e.values[key] = value
	}
	return nil
}
