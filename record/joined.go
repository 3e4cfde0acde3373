package record

import (
	"fmt"
	"strings"
)

// Joined presents two or more records with disjoint field namespaces
// as a single field namespace, for simple foreign-key style joins.
// Every operation is delegated to the component that owns the field;
// with overlapping namespaces the first owner in join order wins.
type Joined struct {
	views []View
}

var _ View = &Joined{}

// Join composes views into one. Read-through: no data is copied.
func Join(views ...View) *Joined {
	return &Joined{views: views}
}

// owner returns the component whose FieldSet has field, nil if none
func (j *Joined) owner(field string) View {
	for _, v := range j.views {
		if v.Has(field) {
			return v
		}
	}
	return nil
}

func (j *Joined) Has(field string) bool {
	return j.owner(field) != nil
}

// Fields returns all components' field names, in join order
func (j *Joined) Fields() []string {
	var names []string
	for _, v := range j.views {
		names = append(names, v.Fields()...)
	}
	return names
}

func (j *Joined) Get(field string) (string, bool) {
	return j.GetAt(field, 0)
}

func (j *Joined) GetAt(field string, index int) (string, bool) {
	v := j.owner(field)
	if v == nil {
		return "", false
	}
	return v.GetAt(field, index)
}

func (j *Joined) GetAll(field string) []string {
	v := j.owner(field)
	if v == nil {
		return nil
	}
	return v.GetAll(field)
}

func (j *Joined) Set(field, value string) error {
	return j.SetAt(field, 0, value)
}

func (j *Joined) SetAt(field string, index int, value string) error {
	v := j.owner(field)
	if v == nil {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return v.SetAt(field, index, value)
}

func (j *Joined) SetAll(field string, values []string) error {
	v := j.owner(field)
	if v == nil {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return v.SetAll(field, values)
}

func (j *Joined) Count(field string) int {
	v := j.owner(field)
	if v == nil {
		return 0
	}
	return v.Count(field)
}

// Clear clears every component
func (j *Joined) Clear() {
	for _, v := range j.views {
		v.Clear()
	}
}

// Matches ANDs per-field tests, each against the owning component
func (j *Joined) Matches(c Criteria) bool {
	for field, pat := range c {
		v, ok := j.Get(field)
		if !ok || !pat.Match(v) {
			return false
		}
	}
	return true
}

// MatchesAny ORs p over every component's fields, in join order
func (j *Joined) MatchesAny(p *Pattern) bool {
	for _, v := range j.views {
		if v.MatchesAny(p) {
			return true
		}
	}
	return false
}

// Text concatenates the components' flat-file texts, in join order
func (j *Joined) Text() string {
	parts := make([]string, 0, len(j.views))
	for _, v := range j.views {
		parts = append(parts, v.Text())
	}
	return strings.Join(parts, "\n")
}

// Markup concatenates the components' markup, in join order
func (j *Joined) Markup() string {
	parts := make([]string, 0, len(j.views))
	for _, v := range j.views {
		parts = append(parts, v.Markup())
	}
	return strings.Join(parts, "\n")
}
