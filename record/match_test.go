package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternKinds(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		// regex, unanchored
		{"fan", "fanzine", true},
		{"fan", "a fan too", true},
		{"fan", "science fiction", false},
		{"^fan$", "fanzine", false},

		// empty pattern matches only an empty value
		{"", "", true},
		{"", "x", false},

		// negation: bare "!" prefix
		{"!fan", "science fiction", true},
		{"!fan", "fanzine", false},
		{"!", "x", true},
		{"!", "", false},

		// numeric operators
		{"> 2001", "2005", true},
		{"> 2001", "1999", false},
		{"> 2001", "not a number", false}, // coerced to 0
		{"< 1", "not a number", true},
		{"== 5", "5.0", true},
		{"!= 5", "6", true},
		{"!= 5", "5", false}, // "!=" is an operator, not negation
		{"<= 5", "5", true},
		{">= 5", "4", false},

		// lexical operators
		{"lt fanzine", "fan fiction", true},
		{"gt fanzine", "fan fiction", false},
		{"eq fanzine", "fanzine", true},
		{"ne fanzine", "fanzine", false},
		{"le fan", "fan", true},
		{"ge fan", "fanzine", true},

		// operator without the space is just a regex
		{">2001", ">2001", true},
	}
	for _, test := range tests {
		p, err := Compile(test.pattern)
		require.NoError(t, err, "pattern %q", test.pattern)
		got := p.Match(test.value)
		require.Equal(t, test.want, got, "pattern %q value %q", test.pattern, test.value)
	}
}

func TestCompileBadRegex(t *testing.T) {
	_, err := Compile("fan[")
	require.ErrorIs(t, err, ErrBadPattern)

	_, err = CompileCriteria(map[string]string{"Name": "fan["})
	require.ErrorIs(t, err, ErrBadPattern)
}

func TestMatches(t *testing.T) {
	fs := testFieldSet()
	r := New(fs)
	require.NoError(t, r.Set("Name", "fanzine"))
	require.NoError(t, r.Set("Year", "2005"))

	c, err := CompileCriteria(map[string]string{"Name": "fan", "Year": "> 2001"})
	require.NoError(t, err)
	require.True(t, r.Matches(c))

	c, err = CompileCriteria(map[string]string{"Year": "> 2010"})
	require.NoError(t, err)
	require.False(t, r.Matches(c))

	// a criterion against an undefined field never matches
	c, err = CompileCriteria(map[string]string{"Entry": "anything"})
	require.NoError(t, err)
	require.False(t, r.Matches(c))
}

func TestMatchesAny(t *testing.T) {
	fs := testFieldSet()
	r := New(fs)
	require.NoError(t, r.Set("Name", "fanzine"))
	require.NoError(t, r.Set("Entry", "Fans produce them"))

	require.True(t, r.MatchesAny(MustCompile("produce")))
	require.True(t, r.MatchesAny(MustCompile("fanzine")))
	require.False(t, r.MatchesAny(MustCompile("filk")))
}
