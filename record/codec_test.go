package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testFieldSet() *FieldSet {
	return NewFieldSet("Name", "Entry", "Year")
}

func TestParseBasic(t *testing.T) {
	fs := testFieldSet()
	r := Parse("Name:fanzine\nEntry:Fans produce them\nYear:1930", fs, false)
	v, ok := r.Get("Name")
	require.True(t, ok)
	require.Equal(t, "fanzine", v)
	v, ok = r.Get("Entry")
	require.True(t, ok)
	require.Equal(t, "Fans produce them", v)
	require.Equal(t, 1, r.Count("Year"))
}

func TestParseMultiValue(t *testing.T) {
	fs := testFieldSet()
	r := Parse("Name:first\nName:second\nName:third", fs, false)
	require.Equal(t, 3, r.Count("Name"))
	require.Equal(t, []string{"first", "second", "third"}, r.GetAll("Name"))
}

func TestParseContinuationLines(t *testing.T) {
	fs := testFieldSet()

	// a plain continuation line joins the last value with a newline
	r := Parse("Entry:line one\nline two\nline three", fs, false)
	v, _ := r.Get("Entry")
	require.Equal(t, "line one\nline two\nline three", v)

	// a line that looks like "word:rest" but names an unknown field
	// is a continuation line too
	r = Parse("Entry:see also\nNote:not a field here", fs, false)
	v, _ = r.Get("Entry")
	require.Equal(t, "see also\nNote:not a field here", v)
	require.Equal(t, 0, r.Count("Note"))

	// ...unless new fields are allowed
	fs2 := testFieldSet()
	r = Parse("Entry:see also\nNote:now a field", fs2, true)
	v, ok := r.Get("Note")
	require.True(t, ok)
	require.Equal(t, "now a field", v)
	require.True(t, fs2.Has("Note"))
}

func TestParseDropsLeadingJunk(t *testing.T) {
	fs := testFieldSet()
	// lines before the first recognized field have nowhere to go
	r := Parse("junk line\nNote:unknown so also junk\nName:kept", fs, false)
	require.Equal(t, 1, r.Count("Name"))
	require.Equal(t, 0, r.Count("Entry"))
	v, _ := r.Get("Name")
	require.Equal(t, "kept", v)
}

func TestParseEmptyValueVsAbsent(t *testing.T) {
	fs := testFieldSet()
	r := Parse("Name:", fs, false)
	v, ok := r.Get("Name")
	require.True(t, ok)
	require.Equal(t, "", v)
	_, ok = r.Get("Entry")
	require.False(t, ok)
}

func TestSerialize(t *testing.T) {
	fs := testFieldSet()
	r := New(fs)
	require.NoError(t, r.Set("Name", "fanzine"))
	require.NoError(t, r.SetAll("Entry", []string{"first", "second"}))
	require.Equal(t, "Name:fanzine\nEntry:first\nEntry:second", r.Text())
}

func requireSameRecord(t *testing.T, want, got *Record) {
	t.Helper()
	for _, f := range want.Fields() {
		require.Equal(t, want.GetAll(f), got.GetAll(f), "field %q", f)
	}
}

func TestRoundTrip(t *testing.T) {
	fs := testFieldSet()
	r := New(fs)
	require.NoError(t, r.Set("Name", "fan fiction"))
	require.NoError(t, r.SetAll("Entry", []string{"multi\nline\nvalue", "second value"}))
	require.NoError(t, r.Set("Year", "1944"))

	r2 := Parse(r.Text(), testFieldSet(), false)
	requireSameRecord(t, r, r2)
}

func TestRoundTripEmptyRecord(t *testing.T) {
	fs := testFieldSet()
	r := New(fs)
	require.Equal(t, "", r.Text())
	r2 := Parse("", testFieldSet(), false)
	requireSameRecord(t, r, r2)
}

func TestFromMap(t *testing.T) {
	fs := testFieldSet()
	r := FromMap(map[string][]string{
		"Name":    {"fanzine"},
		"Entry":   {"a", "b"},
		"Unknown": {"dropped"},
	}, fs, false)
	require.Equal(t, []string{"a", "b"}, r.GetAll("Entry"))
	require.Equal(t, 0, r.Count("Unknown"))
	require.False(t, fs.Has("Unknown"))

	fs2 := testFieldSet()
	r = FromMap(map[string][]string{"Extra": {"kept"}}, fs2, true)
	require.Equal(t, 1, r.Count("Extra"))
	require.True(t, fs2.Has("Extra"))
}

func TestFieldSet(t *testing.T) {
	fs := NewFieldSet("Name", "Entry", "Name", "9bad", "")
	require.Equal(t, []string{"Name", "Entry"}, fs.Names())
	require.True(t, fs.Add("Year"))
	require.False(t, fs.Add("Year"))
	require.False(t, fs.Add("no spaces"))
	require.Equal(t, 3, fs.Len())
}

func TestValidFieldName(t *testing.T) {
	good := []string{"Name", "a", "Last-Name", "f_1", "X9"}
	bad := []string{"", "9name", "-name", "_name", "has space", "has:colon"}
	for _, s := range good {
		require.True(t, ValidFieldName(s), "%q", s)
	}
	for _, s := range bad {
		require.False(t, ValidFieldName(s), "%q", s)
	}
}
