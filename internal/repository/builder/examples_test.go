package builder_test

import (
	"fmt"

	"github.com/locvowork/hr_analytics_sample/internal/repository/builder"
)

func Example_orOperator() {
	qb := builder.NewSQLBuilder().
		Select("id", "department", "salary").
		From("employees").
		Or("department = ?", "Engineering").
		Or("department = ?", "Sales")

	sql, args := qb.Build()
	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: SELECT id, department, salary FROM employees WHERE department = $1 OR department = $2
	// Args: [Engineering Sales]
}

func Example_combinedConditions() {
	qb := builder.NewSQLBuilder().
		Select("*").
		From("employees").
		Where("location = ?", "UK-LON").
		WhereGroup(func(g *builder.SQLBuilder) *builder.SQLBuilder {
			return g.
				Where("level = ?", "Lead").
				Or("level = ?", "Manager")
		}).
		Or("salary > ?", 200000).
		WhereRaw("performance_score >= ?", 4).
		OrderBy("id DESC").
		Limit(10)

	sql, args := qb.Build()
	fmt.Printf("Number of args: %d\n", len(args))
	fmt.Println("SQL:", sql)

	// Output:
	// Number of args: 5
	// SQL: SELECT * FROM employees WHERE location = $1 OR (level = $2 OR level = $3) OR salary > $4 OR performance_score >= $5 ORDER BY id DESC LIMIT 10
}

// Example_upsert shows the statement the Postgres key-value store issues on Put.
func Example_upsert() {
	qb := builder.NewSQLBuilder().
		Insert("kv_store", "key", "value").
		Values("hr_analytics_saved_queries", "[]").
		OnConflict("key").
		DoUpdate("value")

	sql, args := qb.Build()
	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	// Args: [hr_analytics_saved_queries []]
}
