package record

import (
	"regexp"
	"strings"
)

/*
The flat-file format is line-oriented: "Field:value\n", one line per
value, values in field declaration order. A value with embedded
newlines spans multiple lines; every line after the first is a
continuation line and is re-attached verbatim on parse.

That makes parsing ambiguous on purpose: a continuation line that
happens to look like "word:rest" is still a continuation line unless
"word" is a legal field name. Files stay hand-editable and a typo in
a field name degrades to continuation text instead of failing.
*/

// a line that syntactically starts a field value
var fieldLineRe = regexp.MustCompile(`^([A-Za-z][-_A-Za-z0-9]*):(.*)$`)

// Parse decodes one record's text. Lines matching "Field:value" where
// Field is legal (member of fs, or any valid name when allowNew) start
// a new value of that field; with allowNew unknown fields are appended
// to fs. Any other line is appended, with its newline, to the last
// value of the current field. Lines before the first recognized field
// are dropped. Parse never fails.
func Parse(text string, fs *FieldSet, allowNew bool) *Record {
	r := New(fs)
	cur := ""
	for _, line := range strings.Split(text, "\n") {
		if m := fieldLineRe.FindStringSubmatch(line); m != nil {
			name, val := m[1], m[2]
			if r.fs.Has(name) || allowNew {
				r.fs.Add(name)
				r.values[name] = append(r.values[name], val)
				cur = name
				continue
			}
		}
		if cur == "" {
			// no field started yet, nothing to attach the line to
			continue
		}
		vals := r.values[cur]
		vals[len(vals)-1] += "\n" + line
	}
	return r
}

// Serialize emits "Field:value\n" for every value of every field in
// fieldOrder, skipping undefined fields. The trailing newline is
// stripped so records can be joined with a separator line.
func Serialize(r *Record, fieldOrder []string) string {
	var sb strings.Builder
	for _, field := range fieldOrder {
		for _, v := range r.values[field] {
			sb.WriteString(field)
			sb.WriteString(":")
			sb.WriteString(v)
			sb.WriteString("\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
