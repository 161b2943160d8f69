package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// ValueKind tags the representation held by a Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueString
	ValueDate
)

// Value is a single field value read off a record.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

func Null() Value { return Value{Kind: ValueNull} }
func Number(n float64) Value { return Value{Kind: ValueNumber, Num: n} }
func String(s string) Value { return Value{Kind: ValueString, Str: s} }
func DateValue(d Date) Value { return Value{Kind: ValueDate, Str: string(d)} }
func (v Value) IsNull() bool { return v.Kind == ValueNull }

// Falsy reports whether the value is absent, empty or zero.
func (v Value) Falsy() bool {
	switch v.Kind {
	case ValueNull:
		return true
	case ValueNumber:
		return v.Num == 0 || math.IsNaN(v.Num)
	default:
		return v.Str == ""
	}
}

// String renders the value the way it appears in exports; null renders empty.
func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return ""
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.Str
	}
}

// Interface returns a plain Go value: nil, int64 for integral numbers,
// float64 otherwise, or string.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case ValueNull:
		return nil
	case ValueNumber:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1<<53 {
			return int64(v.Num)
		}
		return v.Num
	default:
		return v.Str
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	default:
		return json.Marshal(v.Str)
	}
}

// Cell is one key/value pair of a projected row.
type Cell struct {
	Key   string
	Value Value
}

// Row is a flat, ordered record produced by a projection.
type Row []Cell

// Get returns the first value stored under key, or null.
func (r Row) Get(key string) Value {
	for _, c := range r {
		if c.Key == key {
			return c.Value
		}
	}
	return Null()
}

// Value lets a projected row be queried again like a record.
func (r Row) Value(field FieldName) Value {
	return r.Get(string(field))
}

// Keys lists the distinct keys in first-occurrence order.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r))
	seen := make(map[string]bool, len(r))
	for _, c := range r {
		if !seen[c.Key] {
			seen[c.Key] = true
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// MarshalJSON writes an object whose keys keep the projection order.
// Repeated keys are written once.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.Get(key).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
