package domain

import "fmt"

// FieldName names a query-able employee field.
type FieldName string

const (
	FieldID                   FieldName = "id"
	FieldDepartment           FieldName = "department"
	FieldLocation             FieldName = "location"
	FieldLevel                FieldName = "level"
	FieldSalary               FieldName = "salary"
	FieldStartDate            FieldName = "startDate"
	FieldTerminationDate      FieldName = "terminationDate"
	FieldPerformanceScore     FieldName = "performanceScore"
	FieldManager              FieldName = "manager"
	FieldTotalYearsExperience FieldName = "totalYearsExperience"
	FieldAge                  FieldName = "age"
	FieldGender               FieldName = "gender"
	FieldEthnicity            FieldName = "ethnicity"
	FieldEducationLevel       FieldName = "educationLevel"
	FieldPromotionDate        FieldName = "promotionDate"
)

type fieldSpec struct {
	label string
	kind  ValueKind
}

var fieldOrder = []FieldName{
	FieldID,
	FieldDepartment,
	FieldLocation,
	FieldLevel,
	FieldSalary,
	FieldStartDate,
	FieldTerminationDate,
	FieldPerformanceScore,
	FieldManager,
	FieldTotalYearsExperience,
	FieldAge,
	FieldGender,
	FieldEthnicity,
	FieldEducationLevel,
	FieldPromotionDate,
}

var fieldSpecs = map[FieldName]fieldSpec{
	FieldID:                   {"ID", ValueNumber},
	FieldDepartment:           {"Department", ValueString},
	FieldLocation:             {"Location", ValueString},
	FieldLevel:                {"Level", ValueString},
	FieldSalary:               {"Salary", ValueNumber},
	FieldStartDate:            {"Start Date", ValueDate},
	FieldTerminationDate:      {"Termination Date", ValueDate},
	FieldPerformanceScore:     {"Performance Score", ValueNumber},
	FieldManager:              {"Manager", ValueNumber},
	FieldTotalYearsExperience: {"Total Years Experience", ValueNumber},
	FieldAge:                  {"Age", ValueNumber},
	FieldGender:               {"Gender", ValueString},
	FieldEthnicity:            {"Ethnicity", ValueString},
	FieldEducationLevel:       {"Education Level", ValueString},
	FieldPromotionDate:        {"Promotion Date", ValueDate},
}

// Fields returns every query-able field in display order.
func Fields() []FieldName {
	out := make([]FieldName, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// ParseFieldName validates s against the field enumeration.
func ParseFieldName(s string) (FieldName, error) {
	f := FieldName(s)
	if !f.Valid() {
		return "", &ValidationError{Field: "field", Message: fmt.Sprintf("unknown field %q", s)}
	}
	return f, nil
}

func (f FieldName) Valid() bool {
	_, ok := fieldSpecs[f]
	return ok
}

// Label is the human readable column title; unknown fields echo their name.
func (f FieldName) Label() string {
	if spec, ok := fieldSpecs[f]; ok {
		return spec.label
	}
	return string(f)
}

// Kind is the kind of the field's non-null values.
func (f FieldName) Kind() ValueKind {
	if spec, ok := fieldSpecs[f]; ok {
		return spec.kind
	}
	return ValueString
}
