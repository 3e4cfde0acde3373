package record

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidField is returned on writes/queries against a field
// that is not in the record's FieldSet
var ErrInvalidField = errors.New("invalid field")

// Record is one logical entry: a mapping from field name to an ordered
// list of string values. A field mapped to a nil (or empty) list is
// undefined, which reads back as absent. Keys are never removed from
// the backing map; clearing a record sets every value list to nil.
//
// Record also acts as the addressable handle over its data: get/set
// are field + value-index addressed, and matching/serialization use
// the FieldSet's declaration order.
type Record struct {
	fs     *FieldSet
	values map[string][]string
}

// View is the common surface of Record and Joined. Callers that
// iterate selections or compose joins work against View.
type View interface {
	Has(field string) bool
	Fields() []string
	Get(field string) (string, bool)
	GetAt(field string, index int) (string, bool)
	GetAll(field string) []string
	Set(field, value string) error
	SetAt(field string, index int, value string) error
	SetAll(field string, values []string) error
	Count(field string) int
	Clear()
	Matches(c Criteria) bool
	MatchesAny(p *Pattern) bool
	Text() string
	Markup() string
}

var _ View = &Record{}

// New creates an all-undefined record over fs
func New(fs *FieldSet) *Record {
	if fs == nil {
		fs = NewFieldSet()
	}
	return &Record{
		fs:     fs,
		values: map[string][]string{},
	}
}

// FromMap builds a Record from a plain field => values mapping.
// Fields not in fs are skipped unless allowNew, in which case they are
// appended to fs in sorted key order (maps have no order of their own).
func FromMap(m map[string][]string, fs *FieldSet, allowNew bool) *Record {
	r := New(fs)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !r.fs.Has(k) {
			if !allowNew || !ValidFieldName(k) {
				continue
			}
			r.fs.Add(k)
		}
		if len(m[k]) > 0 {
			r.values[k] = append([]string{}, m[k]...)
		}
	}
	return r
}

// Has returns true if field is legal for this record
func (r *Record) Has(field string) bool {
	return r.fs.Has(field)
}

// Fields returns the legal field names in declaration order
func (r *Record) Fields() []string {
	return r.fs.Names()
}

// Get returns the first value of field. ok is false if the field is
// unknown or undefined.
func (r *Record) Get(field string) (string, bool) {
	return r.GetAt(field, 0)
}

// GetAt returns the value at index. An index past the end is clamped
// to the last value, a negative one to the first.
func (r *Record) GetAt(field string, index int) (string, bool) {
	vals := r.values[field]
	if len(vals) == 0 {
		return "", false
	}
	if index >= len(vals) {
		index = len(vals) - 1
	}
	if index < 0 {
		index = 0
	}
	return vals[index], true
}

// GetAll returns a copy of all values of field, nil if undefined
func (r *Record) GetAll(field string) []string {
	vals := r.values[field]
	if len(vals) == 0 {
		return nil
	}
	return append([]string{}, vals...)
}

// Set sets the first value of field, same as SetAt(field, 0, value)
func (r *Record) Set(field, value string) error {
	return r.SetAt(field, 0, value)
}

// SetAt sets the value at index. An index at or past the end appends,
// a negative one is clamped to the first value. Unknown field is an
// error (ErrInvalidField).
func (r *Record) SetAt(field string, index int, value string) error {
	if !r.fs.Has(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	vals := r.values[field]
	if index >= len(vals) {
		r.values[field] = append(vals, value)
		return nil
	}
	if index < 0 {
		index = 0
	}
	vals[index] = value
	return nil
}

// SetAll replaces the whole value list of field. A nil or empty list
// makes the field undefined.
func (r *Record) SetAll(field string, values []string) error {
	if !r.fs.Has(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	if len(values) == 0 {
		r.values[field] = nil
		return nil
	}
	r.values[field] = append([]string{}, values...)
	return nil
}

// Count returns the number of stored values of field, 0 if undefined
func (r *Record) Count(field string) int {
	return len(r.values[field])
}

// Clear makes every field undefined. The backing map keeps its keys.
func (r *Record) Clear() {
	for k := range r.values {
		r.values[k] = nil
	}
}

// Matches tests the record against criteria: every field's pattern
// must match its first value. A criterion against an undefined field
// is false, never a match.
func (r *Record) Matches(c Criteria) bool {
	for field, pat := range c {
		v, ok := r.Get(field)
		if !ok || !pat.Match(v) {
			return false
		}
	}
	return true
}

// MatchesAny tests p against the first value of every defined field
// and returns true on the first match.
func (r *Record) MatchesAny(p *Pattern) bool {
	for _, field := range r.fs.names {
		if v, ok := r.Get(field); ok && p.Match(v) {
			return true
		}
	}
	return false
}

// Text serializes the record in the flat-file format, fields in
// declaration order.
func (r *Record) Text() string {
	return Serialize(r, r.fs.Names())
}

// Markup serializes the record in the tag markup format
func (r *Record) Markup() string {
	return SerializeMarkup(r, r.fs.Names())
}

// NiceValue re-orders value for display. If rules maps field to a
// separator and value contains it, the value is split on the first
// occurrence and re-emitted as "second first", e.g. "Doe,Jane" with
// separator "," becomes "Jane Doe". Otherwise value is returned as is.
func (r *Record) NiceValue(field, value string, rules map[string]string) string {
	sep := rules[field]
	if sep == "" || !strings.Contains(value, sep) {
		return value
	}
	parts := strings.SplitN(value, sep, 2)
	return parts[1] + " " + parts[0]
}
