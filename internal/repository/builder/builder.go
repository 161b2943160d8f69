package builder

import (
	"fmt"
	"strings"
)

type statement int

const (
	stmtNone statement = iota
	stmtSelect
	stmtInsert
	stmtUpdate
	stmtDelete
)

// clause is a SQL fragment using "?" placeholders plus its arguments.
type clause struct {
	sql  string
	args []interface{}
}

// SQLBuilder helps construct Postgres SQL queries dynamically. Fragments use
// "?" placeholders which Build renumbers to $1, $2, ... in output order.
type SQLBuilder struct {
	stmt    statement
	table   string
	columns []string
	values  []interface{}
	sets    []clause
	joins   []string
	where   []clause
	groups  []*SQLBuilder
	ors     []clause
	raws    []clause
	orderBy []string
	limit   int
	offset  int

	conflictTarget []string
	conflictUpdate []string
	hasConflict    bool
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.stmt = stmtSelect
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.stmt = stmtInsert
	b.table = table
	b.columns = cols
	return b
}

// Update specifies the table to update.
func (b *SQLBuilder) Update(table string) *SQLBuilder {
	b.stmt = stmtUpdate
	b.table = table
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.stmt = stmtDelete
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Set specifies a column and value for update.
func (b *SQLBuilder) Set(col string, val interface{}) *SQLBuilder {
	b.sets = append(b.sets, clause{sql: col + " = ?", args: []interface{}{val}})
	return b
}

// Values specifies the values for insertion.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.values = vals
	return b
}

// OnConflict turns an insert into an upsert on the given conflict target.
// Without DoUpdate the conflicting row is left untouched.
func (b *SQLBuilder) OnConflict(target ...string) *SQLBuilder {
	b.hasConflict = true
	b.conflictTarget = target
	return b
}

// DoUpdate lists the columns overwritten from the rejected row on conflict.
func (b *SQLBuilder) DoUpdate(cols ...string) *SQLBuilder {
	b.conflictUpdate = cols
	return b
}

// Where adds a condition to the query. Where conditions are ANDed together.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, clause{sql: condition, args: args})
	return b
}

// Join adds a JOIN clause.
func (b *SQLBuilder) Join(joinType, table, on string) *SQLBuilder {
	b.joins = append(b.joins, fmt.Sprintf("%s JOIN %s ON %s", joinType, table, on))
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Limit adds a LIMIT clause.
func (b *SQLBuilder) Limit(limit int) *SQLBuilder {
	b.limit = limit
	return b
}

// Offset adds an OFFSET clause.
func (b *SQLBuilder) Offset(offset int) *SQLBuilder {
	b.offset = offset
	return b
}

// Or adds an OR condition to the query.
func (b *SQLBuilder) Or(condition string, args ...interface{}) *SQLBuilder {
	b.ors = append(b.ors, clause{sql: condition, args: args})
	return b
}

// WhereGroup adds a grouped (parenthesized) WHERE condition.
// The provided function receives a new SQLBuilder for building the grouped conditions.
func (b *SQLBuilder) WhereGroup(fn func(*SQLBuilder) *SQLBuilder) *SQLBuilder {
	b.groups = append(b.groups, fn(NewSQLBuilder()))
	return b
}

// WhereRaw adds a raw SQL condition with arguments.
func (b *SQLBuilder) WhereRaw(sql string, args ...interface{}) *SQLBuilder {
	b.raws = append(b.raws, clause{sql: sql, args: args})
	return b
}

// BuildSafe constructs the final SQL string and arguments with safety validation.
// Returns an error if the number of placeholders doesn't match the number of arguments.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	sql, args := b.Build()

	placeholderCount := 0
	for i := 1; i <= len(args)+10; i++ {
		if strings.Contains(sql, fmt.Sprintf("$%d", i)) {
			placeholderCount++
		} else if i > len(args) {
			break
		}
	}

	if placeholderCount != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", placeholderCount, len(args))
	}

	return sql, args, nil
}

// Build constructs the final SQL string and arguments. It does not modify
// the builder, so it can be called repeatedly.
func (b *SQLBuilder) Build() (string, []interface{}) {
	p := &binder{}
	var sb strings.Builder

	switch b.stmt {
	case stmtSelect:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
		for _, join := range b.joins {
			sb.WriteString(" ")
			sb.WriteString(join)
		}
	case stmtInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES (")
		placeholders := make([]string, len(b.values))
		for i, v := range b.values {
			placeholders[i] = p.bind(clause{sql: "?", args: []interface{}{v}})
		}
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteString(")")
		b.writeConflict(&sb)
		return sb.String(), p.args
	case stmtUpdate:
		sb.WriteString("UPDATE ")
		sb.WriteString(b.table)
		sb.WriteString(" SET ")
		setClauses := make([]string, len(b.sets))
		for i, set := range b.sets {
			setClauses[i] = p.bind(set)
		}
		sb.WriteString(strings.Join(setClauses, ", "))
	case stmtDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	}

	if conditions := b.conditions(p); len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " OR "))
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
	}

	if b.offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", b.offset))
	}

	return sb.String(), p.args
}

// conditions renders the ANDed where list first, then groups, ORs and raw
// fragments. The caller joins the result with OR.
func (b *SQLBuilder) conditions(p *binder) []string {
	var out []string
	if len(b.where) > 0 {
		parts := make([]string, len(b.where))
		for i, w := range b.where {
			parts[i] = p.bind(w)
		}
		out = append(out, strings.Join(parts, " AND "))
	}
	for _, g := range b.groups {
		if inner := g.conditions(p); len(inner) > 0 {
			out = append(out, "("+strings.Join(inner, " OR ")+")")
		}
	}
	for _, o := range b.ors {
		out = append(out, p.bind(o))
	}
	for _, r := range b.raws {
		out = append(out, p.bind(r))
	}
	return out
}

func (b *SQLBuilder) writeConflict(sb *strings.Builder) {
	if !b.hasConflict {
		return
	}
	sb.WriteString(" ON CONFLICT")
	if len(b.conflictTarget) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.conflictTarget, ", "))
		sb.WriteString(")")
	}
	if len(b.conflictUpdate) == 0 {
		sb.WriteString(" DO NOTHING")
		return
	}
	sets := make([]string, len(b.conflictUpdate))
	for i, col := range b.conflictUpdate {
		sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}
	sb.WriteString(" DO UPDATE SET ")
	sb.WriteString(strings.Join(sets, ", "))
}

// binder numbers placeholders and collects arguments in output order.
type binder struct {
	args []interface{}
}

func (p *binder) bind(c clause) string {
	parts := strings.Split(c.sql, "?")
	next := len(p.args) + 1
	var sb strings.Builder
	for i, part := range parts {
		sb.WriteString(part)
		if i < len(parts)-1 {
			sb.WriteString(fmt.Sprintf("$%d", next))
			next++
		}
	}
	p.args = append(p.args, c.args...)
	return sb.String()
}
