package generator

// DepartmentSpec holds the salary band and target headcount share of a department.
type DepartmentSpec struct {
	Name       string
	MinSalary  int
	MaxSalary  int
	TargetSize float64
}

// LevelSpec holds the salary multiplier and target share of a job level.
type LevelSpec struct {
	Name             string
	SalaryMultiplier float64
	TargetSize       float64
}

// Catalog is the set of enumerations and weights records are drawn from.
type Catalog struct {
	Departments     []DepartmentSpec
	Levels          []LevelSpec
	Locations       Distribution
	Genders         []string
	Ethnicities     []string
	EducationLevels []string
}

// DefaultCatalog returns the standard company shape.
func DefaultCatalog() Catalog {
	return Catalog{
		Departments: []DepartmentSpec{
			{Name: "Engineering", MinSalary: 80000, MaxSalary: 180000, TargetSize: 0.35},
			{Name: "Sales", MinSalary: 60000, MaxSalary: 150000, TargetSize: 0.2},
			{Name: "Marketing", MinSalary: 55000, MaxSalary: 140000, TargetSize: 0.15},
			{Name: "HR", MinSalary: 50000, MaxSalary: 130000, TargetSize: 0.1},
			{Name: "Finance", MinSalary: 65000, MaxSalary: 160000, TargetSize: 0.1},
			{Name: "Operations", MinSalary: 45000, MaxSalary: 120000, TargetSize: 0.1},
		},
		Levels: []LevelSpec{
			{Name: "Entry Level", SalaryMultiplier: 0.7, TargetSize: 0.25},
			{Name: "Associate", SalaryMultiplier: 0.85, TargetSize: 0.3},
			{Name: "Senior", SalaryMultiplier: 1.0, TargetSize: 0.25},
			{Name: "Lead", SalaryMultiplier: 1.2, TargetSize: 0.1},
			{Name: "Manager", SalaryMultiplier: 1.5, TargetSize: 0.07},
			{Name: "Director", SalaryMultiplier: 2.0, TargetSize: 0.03},
		},
		Locations: Distribution{
			{Key: "US-NY", Weight: 0.25},
			{Key: "US-CA", Weight: 0.2},
			{Key: "US-TX", Weight: 0.15},
			{Key: "UK-LON", Weight: 0.15},
			{Key: "IN-BLR", Weight: 0.15},
			{Key: "SG-SIN", Weight: 0.1},
		},
		Genders:         []string{"F", "M"},
		Ethnicities:     []string{"Asian", "Black", "Hispanic", "White", "Other"},
		EducationLevels: []string{"Bachelor", "Master", "PhD", "High School"},
	}
}

func (c Catalog) departmentDistribution() Distribution {
	d := make(Distribution, len(c.Departments))
	for i, dep := range c.Departments {
		d[i] = Weighted{Key: dep.Name, Weight: dep.TargetSize}
	}
	return d
}

func (c Catalog) levelDistribution() Distribution {
	d := make(Distribution, len(c.Levels))
	for i, lvl := range c.Levels {
		d[i] = Weighted{Key: lvl.Name, Weight: lvl.TargetSize}
	}
	return d
}

func (c Catalog) department(name string) DepartmentSpec {
	for _, dep := range c.Departments {
		if dep.Name == name {
			return dep
		}
	}
	return DepartmentSpec{Name: name}
}

func (c Catalog) level(name string) LevelSpec {
	for _, lvl := range c.Levels {
		if lvl.Name == name {
			return lvl
		}
	}
	return LevelSpec{Name: name, SalaryMultiplier: 1}
}
