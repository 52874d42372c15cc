package querybuilder

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles SQL with `?` placeholders; callers rebind them for
// their driver (sqlx.Rebind).
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder
	Or(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder
	Limit(n int) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Into(table string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	DoNothing() QueryBuilder
	SetExclude(cols ...string) QueryBuilder

	Delete(table string) QueryBuilder

	Build() (string, []interface{}, error)
}

type queryBuilder struct {
	schema     string
	table      string
	cols       []string
	conditions []Condition
	orderBy    []string
	limit      int

	values      InsertRows
	onConflict  []string
	excludeCols []string

	isDelete bool
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{schema: schema}
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	return q.And(clause, args...)
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{condType: CondTypeAnd, clause: clause, args: args})
	return q
}

func (q *queryBuilder) Or(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{condType: CondTypeOr, clause: clause, args: args})
	return q
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	dir := "ASC"
	if !asc {
		dir = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, dir))
	return q
}

func (q *queryBuilder) Limit(n int) QueryBuilder {
	q.limit = n
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

func (q *queryBuilder) DoNothing() QueryBuilder {
	q.excludeCols = nil
	return q
}

// SetExclude turns the conflict clause into an upsert of cols.
func (q *queryBuilder) SetExclude(cols ...string) QueryBuilder {
	q.excludeCols = cols
	return q
}

func (q *queryBuilder) Delete(table string) QueryBuilder {
	q.table = table
	q.isDelete = true
	return q
}

func (q *queryBuilder) Build() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("query has no table")
	}
	switch {
	case len(q.values) > 0:
		return q.buildInsert()
	case q.isDelete:
		return q.buildDelete()
	default:
		return q.buildSelect()
	}
}

func (q *queryBuilder) qualified() string {
	if q.schema == "" {
		return q.table
	}
	return q.schema + "." + q.table
}

func (q *queryBuilder) buildSelect() (string, []interface{}, error) {
	cols := "*"
	if len(q.cols) > 0 {
		cols = strings.Join(q.cols, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", cols, q.qualified())

	var args []interface{}
	if len(q.conditions) > 0 {
		clause, condArgs := buildCondition(q.conditions)
		query += " WHERE " + clause
		args = append(args, condArgs...)
	}
	if len(q.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(q.orderBy, ", ")
	}
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return query, args, nil
}

func (q *queryBuilder) buildInsert() (string, []interface{}, error) {
	numOfParam := len(q.cols)
	if numOfParam == 0 {
		return "", nil, fmt.Errorf("insert into %s has no columns", q.table)
	}

	tuples := make([]string, len(q.values))
	args := make([]interface{}, 0, numOfParam*len(q.values))
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", numOfParam), ", ") + ")"
	for i, row := range q.values {
		if len(row) != numOfParam {
			return "", nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), numOfParam)
		}
		args = append(args, row...)
		tuples[i] = placeholders
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		q.qualified(), strings.Join(q.cols, ", "), strings.Join(tuples, ", "))

	if len(q.onConflict) > 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(q.onConflict, ", "))
		if len(q.excludeCols) == 0 {
			query += " DO NOTHING"
		} else {
			sets := make([]string, len(q.excludeCols))
			for i, col := range q.excludeCols {
				sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
			}
			query += " DO UPDATE SET " + strings.Join(sets, ", ")
		}
	}
	return query, args, nil
}

func (q *queryBuilder) buildDelete() (string, []interface{}, error) {
	if len(q.conditions) == 0 {
		return "", nil, fmt.Errorf("refusing to delete from %s without a condition", q.table)
	}
	clause, args := buildCondition(q.conditions)
	return fmt.Sprintf("DELETE FROM %s WHERE %s", q.qualified(), clause), args, nil
}

func buildCondition(conditions []Condition) (string, []interface{}) {
	parts := make([]string, 0, len(conditions)*2)
	args := make([]interface{}, 0)
	for i, cond := range conditions {
		if i > 0 {
			parts = append(parts, cond.condType.ToString())
		}
		parts = append(parts, cond.clause)
		args = append(args, cond.args...)
	}
	return strings.Join(parts, " "), args
}
