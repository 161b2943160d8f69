package domain

import "time"

// DateLayout is the ISO-8601 calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// Date is an ISO-8601 calendar date. Lexicographic order of the stored string
// is chronological order.
type Date string

// NewDate formats t (in UTC) as a Date.
func NewDate(t time.Time) Date {
	return Date(t.UTC().Format(DateLayout))
}

// NewDatePtr is NewDate for optional fields.
func NewDatePtr(t time.Time) *Date {
	d := NewDate(t)
	return &d
}

// Time parses the date back into a UTC midnight timestamp.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// PerformanceEntry is one yearly review score.
type PerformanceEntry struct {
	Year  int `json:"year"`
	Score int `json:"score"`
}

// Employee is one record of the dataset. Optional fields serialize as null.
type Employee struct {
	ID                   int                `json:"id"`
	Department           string             `json:"department"`
	Location             string             `json:"location"`
	Level                string             `json:"level"`
	Salary               int                `json:"salary"`
	StartDate            Date               `json:"startDate"`
	TerminationDate      *Date              `json:"terminationDate"`
	PerformanceScore     int                `json:"performanceScore"`
	PerformanceHistory   []PerformanceEntry `json:"performanceHistory"`
	Manager              *int               `json:"manager"`
	TotalYearsExperience int                `json:"totalYearsExperience"`
	Age                  int                `json:"age"`
	Gender               string             `json:"gender"`
	Ethnicity            string             `json:"ethnicity"`
	EducationLevel       string             `json:"educationLevel"`
	PromotionDate        *Date              `json:"promotionDate"`
}

// Active reports whether the employee has no termination date.
func (e Employee) Active() bool {
	return e.TerminationDate == nil || *e.TerminationDate == ""
}

// Value returns the value stored under a query-able field. Unknown fields and
// absent optional fields yield a null value.
func (e Employee) Value(field FieldName) Value {
	switch field {
	case FieldID:
		return Number(float64(e.ID))
	case FieldDepartment:
		return String(e.Department)
	case FieldLocation:
		return String(e.Location)
	case FieldLevel:
		return String(e.Level)
	case FieldSalary:
		return Number(float64(e.Salary))
	case FieldStartDate:
		return DateValue(e.StartDate)
	case FieldTerminationDate:
		return optionalDate(e.TerminationDate)
	case FieldPerformanceScore:
		return Number(float64(e.PerformanceScore))
	case FieldManager:
		if e.Manager == nil {
			return Null()
		}
		return Number(float64(*e.Manager))
	case FieldTotalYearsExperience:
		return Number(float64(e.TotalYearsExperience))
	case FieldAge:
		return Number(float64(e.Age))
	case FieldGender:
		return String(e.Gender)
	case FieldEthnicity:
		return String(e.Ethnicity)
	case FieldEducationLevel:
		return String(e.EducationLevel)
	case FieldPromotionDate:
		return optionalDate(e.PromotionDate)
	default:
		return Null()
	}
}

func optionalDate(d *Date) Value {
	if d == nil {
		return Null()
	}
	return DateValue(*d)
}
