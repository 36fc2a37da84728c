package metadata

import (
	"fmt"
	"sort"
	"strings"
)

// Reserved keys stamped by the pipeline.
const (
	KeyReference       = "document.reference"
	KeyContentType     = "document.contentType"
	KeyContentFamily   = "document.contentFamily"
	KeyContentEncoding = "document.contentEncoding"
	KeyParentReference = "document.parent.reference"
	KeyEmbeddedIndex   = "document.embedded.index"
)

// Metadata is an ordered string-key multimap of document attributes.
// Key order follows first insertion; values per key keep append order.
type Metadata struct {
	keys   []string
	values map[string][]string
}

func New() *Metadata {
	return &Metadata{values: make(map[string][]string)}
}

// Add appends values to a key, creating it if absent.
func (m *Metadata) Add(key string, vals ...string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], vals...)
}

// Set replaces all values of a key.
func (m *Metadata) Set(key string, vals ...string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append([]string(nil), vals...)
}

// SetIfEmpty sets the key only when it has no non-blank value yet.
func (m *Metadata) SetIfEmpty(key string, vals ...string) {
	if m.Get(key) == "" {
		m.Set(key, vals...)
	}
}

// Get returns the first value of a key, or "".
func (m *Metadata) Get(key string) string {
	if vals := m.values[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Values returns all values of a key in insertion order.
func (m *Metadata) Values(key string) []string {
	return append([]string(nil), m.values[key]...)
}

// Has reports whether the key exists, even with no values.
func (m *Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns all keys in first-insertion order.
func (m *Metadata) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Remove deletes a key and its values.
func (m *Metadata) Remove(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Metadata) Len() int {
	return len(m.keys)
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	c := New()
	for _, k := range m.keys {
		c.Add(k, m.values[k]...)
	}
	return c
}

// Merge adds every key/value of other into m.
func (m *Metadata) Merge(other *Metadata) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Add(k, other.values[k]...)
	}
}

// WriteTo-style textual dump used by error dumps and sibling meta
// files: "key = value" lines, keys sorted for stable output.
func (m *Metadata) String() string {
	keys := append([]string(nil), m.keys...)
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range m.values[k] {
			fmt.Fprintf(&b, "%s = %s\n", k, v)
		}
	}
	return b.String()
}
