package domain

import (
	"fmt"
	"strings"
)

// Operator is the closed set of comparison operators a Condition can use.
type Operator int

const (
	// OpNone marks a condition whose operator has not been chosen yet.
	OpNone Operator = iota
	OpEqual
	OpNotEqual
	OpGreater
	OpLess
	OpLike
	OpIsNull
	OpIsNotNull
	// OpPassThrough matches every record. It keeps the legacy behaviour of
	// unrecognised operators available under an explicit name.
	OpPassThrough
)

var operatorText = map[Operator]string{
	OpNone:        "",
	OpEqual:       "=",
	OpNotEqual:    "!=",
	OpGreater:     ">",
	OpLess:        "<",
	OpLike:        "LIKE",
	OpIsNull:      "IS NULL",
	OpIsNotNull:   "IS NOT NULL",
	OpPassThrough: "ANY",
}

var operatorLabels = map[Operator]string{
	OpEqual:       "Equals",
	OpNotEqual:    "Not Equals",
	OpGreater:     "Greater Than",
	OpLess:        "Less Than",
	OpLike:        "Contains",
	OpIsNull:      "Is Empty",
	OpIsNotNull:   "Is Not Empty",
	OpPassThrough: "Any",
}

// Operators lists the operators offered to query authors.
func Operators() []Operator {
	return []Operator{OpEqual, OpNotEqual, OpGreater, OpLess, OpLike, OpIsNull, OpIsNotNull}
}

// ParseOperator maps the textual form ("=", "LIKE", "IS NULL", ...) onto an
// Operator. The empty string yields OpNone. Matching is case-insensitive.
func ParseOperator(s string) (Operator, error) {
	norm := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	for op, text := range operatorText {
		if text == norm {
			return op, nil
		}
	}
	return OpNone, &ValidationError{Field: "operator", Message: fmt.Sprintf("unknown operator %q", s)}
}

func (o Operator) String() string {
	if s, ok := operatorText[o]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Label is the human readable operator name.
func (o Operator) Label() string {
	return operatorLabels[o]
}

// Unary reports whether the operator ignores the condition value.
func (o Operator) Unary() bool {
	return o == OpIsNull || o == OpIsNotNull
}

func (o Operator) MarshalText() ([]byte, error) {
	s, ok := operatorText[o]
	if !ok {
		return nil, fmt.Errorf("cannot marshal %s", o)
	}
	return []byte(s), nil
}

func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// Condition is one field/operator/value filter.
type Condition struct {
	Field    FieldName `json:"field" yaml:"field"`
	Operator Operator  `json:"operator" yaml:"operator"`
	Value    string    `json:"value" yaml:"value"`
}

// Incomplete reports whether the condition is still being authored
// (field or operator unset). Incomplete conditions are skipped by queries.
func (c Condition) Incomplete() bool {
	return c.Field == "" || c.Operator == OpNone
}

// Validate rejects complete conditions that reference an unknown field.
func (c Condition) Validate() error {
	if c.Incomplete() {
		return nil
	}
	if !c.Field.Valid() {
		return &ValidationError{Field: "field", Message: fmt.Sprintf("unknown field %q", c.Field)}
	}
	return nil
}

// QueryConfig is a field selection plus an AND-combined condition list.
type QueryConfig struct {
	SelectedFields []FieldName `json:"selectedFields" yaml:"selected_fields"`
	Conditions     []Condition `json:"conditions" yaml:"conditions"`
}

// DefaultQueryConfig is the configuration a fresh query builder starts with.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		SelectedFields: []FieldName{FieldDepartment, FieldLevel, FieldSalary},
		Conditions:     []Condition{{}},
	}
}

// Clone returns a deep copy. Nil slices stay nil.
func (c QueryConfig) Clone() QueryConfig {
	var out QueryConfig
	if c.SelectedFields != nil {
		out.SelectedFields = make([]FieldName, len(c.SelectedFields))
		copy(out.SelectedFields, c.SelectedFields)
	}
	if c.Conditions != nil {
		out.Conditions = make([]Condition, len(c.Conditions))
		copy(out.Conditions, c.Conditions)
	}
	return out
}

func (c QueryConfig) Validate() error {
	for _, f := range c.SelectedFields {
		if !f.Valid() {
			return &ValidationError{Field: "selectedFields", Message: fmt.Sprintf("unknown field %q", f)}
		}
	}
	for _, cond := range c.Conditions {
		if err := cond.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SavedQuery is a named QueryConfig. ID is the creation time in Unix
// milliseconds, bumped when needed to stay strictly increasing.
type SavedQuery struct {
	ID     int64       `json:"id" yaml:"-"`
	Name   string      `json:"name" yaml:"name"`
	Config QueryConfig `json:"config" yaml:"config"`
}
