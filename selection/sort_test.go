package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortLexical(t *testing.T) {
	src := glossarySource(t)
	pred, err := Where(map[string]string{"Name": "fan"})
	require.NoError(t, err)
	x, err := New(src, pred)
	require.NoError(t, err)

	x.Sort([]SortKey{{Field: "Name"}})
	// 'f','a','n' equal, then ' ' < 'z'
	require.Equal(t, []string{"fan fiction", "fanzine"}, names(t, x))
}

func TestSortNumeric(t *testing.T) {
	src := mkSource(t,
		map[string]string{"Name": "a", "Year": "100"},
		map[string]string{"Name": "b", "Year": "20"},
		map[string]string{"Name": "c", "Year": "3"},
		map[string]string{"Name": "d", "Year": "unknown"}, // counts as 0
	)
	x, err := New(src, All())
	require.NoError(t, err)

	x.Sort([]SortKey{{Field: "Year", Numeric: true}})
	require.Equal(t, []string{"d", "c", "b", "a"}, names(t, x))

	// lexical sort of the same data orders by digits
	x.Sort([]SortKey{{Field: "Year"}})
	require.Equal(t, []string{"a", "b", "c", "d"}, names(t, x))
}

func TestSortReverse(t *testing.T) {
	x, err := New(glossarySource(t), All())
	require.NoError(t, err)
	x.Sort([]SortKey{{Field: "Year", Numeric: true, Reverse: true}})
	require.Equal(t, []string{"filk", "fan fiction", "fanzine"}, names(t, x))
}

func TestSortStripTitle(t *testing.T) {
	src := mkSource(t,
		map[string]string{"Name": "The Immortal Storm"},
		map[string]string{"Name": "A Wealth of Fable"},
		map[string]string{"Name": "Fancyclopedia"},
		map[string]string{"Name": "Ah! Sweet Idiocy!"}, // "Ah" is not "A "
	)
	x, err := New(src, All())
	require.NoError(t, err)
	x.Sort([]SortKey{{Field: "Name", StripTitle: true}})
	require.Equal(t, []string{
		"Ah! Sweet Idiocy!",
		"Fancyclopedia",
		"The Immortal Storm",
		"A Wealth of Fable",
	}, names(t, x))
}

func TestSortLastFirst(t *testing.T) {
	src := mkSource(t,
		map[string]string{"Name": "Jane Doe"},
		map[string]string{"Name": "John Q Adams"},
		map[string]string{"Name": "Cher"},
	)
	x, err := New(src, All())
	require.NoError(t, err)
	x.Sort([]SortKey{{Field: "Name", LastFirst: true}})
	// compared as "Adams,John Q", "Cher", "Doe,Jane"
	require.Equal(t, []string{"John Q Adams", "Cher", "Jane Doe"}, names(t, x))
}

func TestSortMultiKey(t *testing.T) {
	src := mkSource(t,
		map[string]string{"Name": "b", "Group": "B", "Year": "2"},
		map[string]string{"Name": "a", "Group": "A", "Year": "9"},
		map[string]string{"Name": "c", "Group": "B", "Year": "1"},
	)
	x, err := New(src, All())
	require.NoError(t, err)
	x.Sort([]SortKey{
		{Field: "Group"},
		{Field: "Year", Numeric: true},
	})
	require.Equal(t, []string{"a", "c", "b"}, names(t, x))
}

func TestSortStable(t *testing.T) {
	src := mkSource(t,
		map[string]string{"Name": "first", "Group": "same"},
		map[string]string{"Name": "second", "Group": "same"},
		map[string]string{"Name": "third", "Group": "same"},
	)
	x, err := New(src, All())
	require.NoError(t, err)
	x.Sort([]SortKey{{Field: "Group"}})
	// equal keys keep their prior relative order
	require.Equal(t, []string{"first", "second", "third"}, names(t, x))
}

func TestSortMissingField(t *testing.T) {
	src := mkSource(t,
		map[string]string{"Name": "b", "Year": "5"},
		map[string]string{"Name": "a"}, // no Year, sorts as ""
	)
	x, err := New(src, All())
	require.NoError(t, err)
	x.Sort([]SortKey{{Field: "Year"}})
	require.Equal(t, []string{"a", "b"}, names(t, x))
}

func TestCompareMultiValued(t *testing.T) {
	src := mkSource(t, map[string]string{"Name": "x"}, map[string]string{"Name": "x"})
	a := src.At(0)
	b := src.At(1)
	require.NoError(t, src.recs[0].SetAll("Entry", []string{"a", "z"}))
	require.NoError(t, src.recs[1].SetAll("Entry", []string{"a"}))
	// joined values give multi-valued records a total order
	require.Equal(t, 1, Compare(a, b, []SortKey{{Field: "Entry"}}))
	require.Equal(t, -1, Compare(b, a, []SortKey{{Field: "Entry"}}))
	require.Equal(t, 0, Compare(a, a, []SortKey{{Field: "Entry"}}))
}
