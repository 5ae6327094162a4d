package css

import (
	"regexp"
	"strings"
)

// customPropertyPattern matches "--name: value" where value runs up to the next
// unescaped semicolon, brace or end of text.
var customPropertyPattern = regexp.MustCompile(`(--[A-Za-z0-9_-]+)\s*:((?:\\.|[^;{}\\])*)`)

// PropertyMap holds custom property declarations of a single block. Names keep
// the order of their first declaration.
type PropertyMap struct {
	names  []string
	values map[string]string
}

// NewPropertyMap returns an empty map ready for use.
func NewPropertyMap() PropertyMap {
	return PropertyMap{values: make(map[string]string)}
}

// Set stores value under name. Re-declaring a name replaces its value but
// keeps its original position.
func (m *PropertyMap) Set(name, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[name]; !exists {
		m.names = append(m.names, name)
	}
	m.values[name] = value
}

// Get returns the declared value for name.
func (m PropertyMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Value returns the declared value for name or empty string.
func (m PropertyMap) Value(name string) string {
	return m.values[name]
}

// Has reports whether name has been declared.
func (m PropertyMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Names returns declared property names in source order.
func (m PropertyMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns number of distinct declared properties.
func (m PropertyMap) Len() int {
	return len(m.names)
}

// Equal reports whether both maps declare the same names with the same values,
// ignoring order.
func (m PropertyMap) Equal(other PropertyMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, name := range m.names {
		if v, ok := other.values[name]; !ok || v != m.values[name] {
			return false
		}
	}
	return true
}

// ParseProperties extracts all custom property declarations from the inner
// text of a block. Values are trimmed, otherwise kept verbatim.
func ParseProperties(block string) PropertyMap {
	props := NewPropertyMap()
	if strings.TrimSpace(block) == "" {
		return props
	}
	for _, m := range customPropertyPattern.FindAllStringSubmatch(block, -1) {
		props.Set(m[1], strings.TrimSpace(m[2]))
	}
	return props
}
