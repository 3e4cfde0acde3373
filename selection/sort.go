package selection

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fvdb/fvdb/record"
	"github.com/fvdb/fvdb/u"
)

// multi-valued fields sort by their values joined with a separator
// that won't show up in record data
const joinSep = "\x00"

// SortKey is one field of a multi-key sort plus its collation rules
type SortKey struct {
	Field string
	// compare as numbers, unparsable values count as 0
	Numeric bool
	// descending instead of ascending
	Reverse bool
	// ignore a single leading "The " or "A " before comparing
	StripTitle bool
	// compare "A B C" as "C,A B": last word first. A comparison-time
	// transform only, the stored value is untouched.
	LastFirst bool
}

// sortValue derives the comparison key for rec under k
func sortValue(rec record.View, k SortKey) string {
	if rec == nil {
		return ""
	}
	v := strings.Join(rec.GetAll(k.Field), joinSep)
	if k.StripTitle {
		if s, ok := u.TrimPrefix(v, "The "); ok {
			v = s
		} else if s, ok := u.TrimPrefix(v, "A "); ok {
			v = s
		}
	}
	if k.LastFirst {
		if i := strings.LastIndexAny(v, " \t"); i != -1 {
			v = v[i+1:] + "," + v[:i]
		}
	}
	return v
}

// compareKey compares a and b under one key: -1, 0 or 1
func compareKey(a, b record.View, k SortKey) int {
	va, vb := sortValue(a, k), sortValue(b, k)
	var sign int
	if k.Numeric {
		na, nb := toNumber(va), toNumber(vb)
		switch {
		case na < nb:
			sign = -1
		case na > nb:
			sign = 1
		}
	} else {
		sign = strings.Compare(va, vb)
	}
	if k.Reverse {
		sign = -sign
	}
	return sign
}

// Compare compares a and b key by key until one differs
func Compare(a, b record.View, keys []SortKey) int {
	for _, k := range keys {
		if sign := compareKey(a, b, k); sign != 0 {
			return sign
		}
	}
	return 0
}

func toNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Sort re-orders the whole selection (not just the window) by keys.
// The sort is stable: records that compare equal keep their prior
// relative order.
func (x *Index) Sort(keys []SortKey) {
	sort.SliceStable(x.sel, func(i, j int) bool {
		return Compare(x.src.At(x.sel[i]), x.src.At(x.sel[j]), keys) < 0
	})
}
