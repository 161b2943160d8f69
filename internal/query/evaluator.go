package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// Record is anything whose fields can be read by name: an employee or a
// previously projected row.
type Record interface {
	Value(field domain.FieldName) domain.Value
}

// Evaluate reports whether record satisfies c.
//
// Comparison is type-aware per field kind:
//   - number fields parse the condition value the way a JavaScript Number()
//     conversion does (trimmed, empty is 0, unparsable never matches)
//   - string and date fields compare the stored text exactly or lexicographically
//   - a null field never satisfies =, > or <. Loose comparison would read
//     null as 0, so a missing salary or date no longer passes "< 5"
//
// OpPassThrough and any operator outside the enumeration match every record.
func Evaluate(record Record, c domain.Condition) bool {
	v := record.Value(c.Field)
	switch c.Operator {
	case domain.OpEqual:
		return equal(v, c.Field.Kind(), c.Value)
	case domain.OpNotEqual:
		return !equal(v, c.Field.Kind(), c.Value)
	case domain.OpGreater:
		return compare(v, c.Field.Kind(), c.Value) > 0
	case domain.OpLess:
		cmp := compare(v, c.Field.Kind(), c.Value)
		return cmp < 0 && cmp != incomparable
	case domain.OpLike:
		return strings.Contains(strings.ToLower(v.String()), strings.ToLower(c.Value))
	case domain.OpIsNull:
		return v.Falsy()
	case domain.OpIsNotNull:
		return !v.Falsy()
	default:
		return true
	}
}

const incomparable = math.MinInt32

func equal(v domain.Value, kind domain.ValueKind, raw string) bool {
	if v.IsNull() {
		return false
	}
	if kind == domain.ValueNumber {
		n := toNumber(raw)
		return !math.IsNaN(n) && v.Num == n
	}
	return v.Str == raw
}

// compare returns -1, 0 or 1, or incomparable when either side is null or
// not a number on a numeric field.
func compare(v domain.Value, kind domain.ValueKind, raw string) int {
	if v.IsNull() {
		return incomparable
	}
	if kind == domain.ValueNumber {
		n := toNumber(raw)
		switch {
		case math.IsNaN(n) || math.IsNaN(v.Num):
			return incomparable
		case v.Num < n:
			return -1
		case v.Num > n:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(v.Str, raw)
}

// toNumber converts condition text to a number, returning NaN when the text
// is not numeric.
func toNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.ContainsAny(lower, "_pn") {
		// rejects Go-only spellings such as 1_000, hex floats, inf and nan
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}
