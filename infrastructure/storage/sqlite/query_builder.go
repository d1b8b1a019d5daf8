// ABOUTME: Safe SQL query builder for the SQLite history store
// ABOUTME: Enforces parameterization and validates identifiers before they reach SQL

package sqlite

import (
	"fmt"
	"regexp"
	"strings"
)

// QueryBuilder provides a safe way to build SQL queries with automatic parameterization.
// Invalid identifiers are recorded and surface as an error from Build.
type QueryBuilder struct {
	query   string
	where   []string
	orderBy string
	params  []interface{}
	err     error
}

// only alphanumeric and underscore identifiers are allowed
var safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var allowedOperators = map[string]bool{
	"=":    true,
	"!=":   true,
	">":    true,
	"<":    true,
	">=":   true,
	"<=":   true,
	"LIKE": true,
}

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		params: make([]interface{}, 0),
	}
}

// validateName validates table/column names to prevent SQL injection
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("name too long: %s (max 64 characters)", name)
	}
	if !safeNamePattern.MatchString(name) {
		return fmt.Errorf("invalid name: %s (only alphanumeric and underscore allowed)", name)
	}
	return nil
}

func (qb *QueryBuilder) check(name string) bool {
	if qb.err != nil {
		return false
	}
	if err := validateName(name); err != nil {
		qb.err = err
		return false
	}
	return true
}

// Select builds a SELECT query
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	for _, col := range columns {
		if !qb.check(col) {
			return qb
		}
	}
	if len(columns) == 0 {
		qb.query = "SELECT *"
	} else {
		qb.query = "SELECT " + strings.Join(columns, ", ")
	}
	return qb
}

// From adds FROM clause
func (qb *QueryBuilder) From(table string) *QueryBuilder {
	if qb.check(table) {
		qb.query += " FROM " + table
	}
	return qb
}

// Where adds a parameterized condition; conditions are joined with AND
func (qb *QueryBuilder) Where(column string, operator string, value interface{}) *QueryBuilder {
	if !qb.check(column) {
		return qb
	}
	if !allowedOperators[operator] {
		qb.err = fmt.Errorf("operator not allowed: %s", operator)
		return qb
	}
	qb.where = append(qb.where, column+" "+operator+" ?")
	qb.params = append(qb.params, value)
	return qb
}

// WhereHost matches a host column against host or any of its subdomains
func (qb *QueryBuilder) WhereHost(column string, host string) *QueryBuilder {
	if !qb.check(column) {
		return qb
	}
	host = strings.ToLower(strings.TrimSpace(host))
	qb.where = append(qb.where, "(LOWER("+column+") = ? OR LOWER("+column+`) LIKE ? ESCAPE '\')`)
	qb.params = append(qb.params, host, "%."+likeEscaper.Replace(host))
	return qb
}

// likeEscaper quotes LIKE wildcards so they match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// OrderBy sets ascending ordering on a column
func (qb *QueryBuilder) OrderBy(column string) *QueryBuilder {
	if qb.check(column) {
		qb.orderBy = " ORDER BY " + column
	}
	return qb
}

// Insert builds an INSERT query for the given columns
func (qb *QueryBuilder) Insert(table string, columns ...string) *QueryBuilder {
	if !qb.check(table) {
		return qb
	}
	for _, col := range columns {
		if !qb.check(col) {
			return qb
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	qb.query = "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
	return qb
}

// Build returns the built query and parameters
func (qb *QueryBuilder) Build() (string, []interface{}, error) {
	if qb.err != nil {
		return "", nil, qb.err
	}
	query := qb.query
	if len(qb.where) > 0 {
		query += " WHERE " + strings.Join(qb.where, " AND ")
	}
	query += qb.orderBy
	return query, qb.params, nil
}
