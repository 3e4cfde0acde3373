package record

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadPattern is returned when a pattern doesn't compile
// (in practice: its regular expression is invalid)
var ErrBadPattern = errors.New("bad pattern")

/*
A pattern tests one string value. The pattern language:

  - "" matches only an empty value
  - a leading "!" negates the rest; "!=" is not a negation prefix,
    it's the numeric not-equal operator
  - "<op> <operand>" with op in < > == != <= >= compares numerically,
    values that don't parse count as 0
  - "<op> <operand>" with op in lt gt eq ne le ge compares lexically
  - anything else is a regular expression, unanchored (substring)
*/

type patternKind int

const (
	patRegex patternKind = iota
	patEmpty
	patNumeric
	patLexical
)

var (
	numericOps = map[string]bool{"<": true, ">": true, "==": true, "!=": true, "<=": true, ">=": true}
	lexicalOps = map[string]bool{"lt": true, "gt": true, "eq": true, "ne": true, "le": true, "ge": true}
)

// Pattern is one compiled value test
type Pattern struct {
	negate  bool
	kind    patternKind
	op      string
	num     float64
	operand string
	re      *regexp.Regexp
}

// Compile parses s into a Pattern
func Compile(s string) (*Pattern, error) {
	p := &Pattern{}
	if strings.HasPrefix(s, "!") && !strings.HasPrefix(s, "!=") {
		p.negate = true
		s = s[1:]
	}
	if s == "" {
		p.kind = patEmpty
		return p, nil
	}
	if op, operand, ok := strings.Cut(s, " "); ok {
		if numericOps[op] {
			p.kind = patNumeric
			p.op = op
			p.num = toNumber(operand)
			return p, nil
		}
		if lexicalOps[op] {
			p.kind = patLexical
			p.op = op
			p.operand = operand
			return p, nil
		}
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPattern, err)
	}
	p.re = re
	return p, nil
}

// MustCompile is Compile that panics on error, for patterns known
// to be valid at compile time
func MustCompile(s string) *Pattern {
	p, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Match tests value against the pattern
func (p *Pattern) Match(value string) bool {
	res := false
	switch p.kind {
	case patEmpty:
		res = value == ""
	case patNumeric:
		res = cmpOK(p.op, compareFloat(toNumber(value), p.num))
	case patLexical:
		res = cmpOK(p.op, strings.Compare(value, p.operand))
	default:
		res = p.re.MatchString(value)
	}
	if p.negate {
		return !res
	}
	return res
}

// toNumber coerces s to a number, 0 if it doesn't parse
func toNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func compareFloat(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// cmpOK maps the sign of a comparison to the operator's verdict
func cmpOK(op string, sign int) bool {
	switch op {
	case "<", "lt":
		return sign < 0
	case ">", "gt":
		return sign > 0
	case "<=", "le":
		return sign <= 0
	case ">=", "ge":
		return sign >= 0
	case "!=", "ne":
		return sign != 0
	default: // "==", "eq"
		return sign == 0
	}
}

// Criteria is a set of per-field patterns, tested with AND
type Criteria map[string]*Pattern

// CompileCriteria compiles a field => pattern map into Criteria
func CompileCriteria(m map[string]string) (Criteria, error) {
	c := make(Criteria, len(m))
	for field, s := range m {
		p, err := Compile(s)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		c[field] = p
	}
	return c, nil
}
