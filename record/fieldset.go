package record

import "regexp"

// field names: letter first, then letters / digits / '-' / '_'
var fieldNameRe = regexp.MustCompile(`^[A-Za-z][-_A-Za-z0-9]*$`)

// ValidFieldName returns true if name is syntactically a legal field name.
func ValidFieldName(name string) bool {
	return fieldNameRe.MatchString(name)
}

// FieldSet is the ordered list of legal field names for a store.
// The order is authoritative for serialization.
type FieldSet struct {
	names  []string
	lookup map[string]bool
}

// NewFieldSet creates a FieldSet from names, preserving their order.
// Names that are not syntactically valid are skipped.
func NewFieldSet(names ...string) *FieldSet {
	fs := &FieldSet{
		lookup: map[string]bool{},
	}
	for _, name := range names {
		fs.Add(name)
	}
	return fs
}

// Has returns true if name is a member of the set
func (fs *FieldSet) Has(name string) bool {
	return fs.lookup[name]
}

// Add appends name to the set if it's valid and not already present.
// Returns true if the set changed.
func (fs *FieldSet) Add(name string) bool {
	if fs.lookup[name] || !ValidFieldName(name) {
		return false
	}
	fs.lookup[name] = true
	fs.names = append(fs.names, name)
	return true
}

// Names returns the field names in declaration order
func (fs *FieldSet) Names() []string {
	return append([]string{}, fs.names...)
}

func (fs *FieldSet) Len() int {
	return len(fs.names)
}
