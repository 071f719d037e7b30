// ABOUTME: Parameterized SQL builder for the SQLite render store
// ABOUTME: Validates identifiers and keys so only placeholders carry caller data

package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"v2ex-richview/core/interfaces"
)

var (
	safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	maxNameLength  = 64
	maxKeyLength   = 255
	maxValueLength = 4 * 1024 * 1024
)

var allowedOperators = map[string]bool{
	"=":  true,
	"!=": true,
	">":  true,
	"<":  true,
	">=": true,
	"<=": true,
}

// QueryBuilder assembles one statement. Invalid identifiers set an error
// that Build reports instead of producing SQL.
type QueryBuilder struct {
	parts  []string
	where  []string
	params []interface{}
	err    error
}

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// ValidateName checks a table or column identifier
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name too long: %d characters (max %d)", len(name), maxNameLength)
	}
	if !safeNamePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: only letters, digits and underscore allowed", name)
	}
	return nil
}

func (qb *QueryBuilder) names(names ...string) bool {
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			if qb.err == nil {
				qb.err = err
			}
			return false
		}
	}
	return true
}

// Select starts a SELECT of the given columns, or * when none are given
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	if !qb.names(columns...) {
		return qb
	}
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}
	qb.parts = append(qb.parts, "SELECT "+cols)
	return qb
}

// Count starts a SELECT COUNT(*)
func (qb *QueryBuilder) Count() *QueryBuilder {
	qb.parts = append(qb.parts, "SELECT COUNT(*)")
	return qb
}

// From adds FROM clause
func (qb *QueryBuilder) From(table string) *QueryBuilder {
	if qb.names(table) {
		qb.parts = append(qb.parts, "FROM "+table)
	}
	return qb
}

// Where adds a parameterized condition; conditions are joined with AND
func (qb *QueryBuilder) Where(column, operator string, value interface{}) *QueryBuilder {
	if !qb.names(column) {
		return qb
	}
	if !allowedOperators[operator] {
		if qb.err == nil {
			qb.err = fmt.Errorf("operator %q not allowed", operator)
		}
		return qb
	}
	qb.where = append(qb.where, column+" "+operator+" ?")
	qb.params = append(qb.params, value)
	return qb
}

// Live matches rows whose expiry column is zero (never expires) or later
// than now
func (qb *QueryBuilder) Live(column string, now int64) *QueryBuilder {
	if qb.names(column) {
		qb.where = append(qb.where, "("+column+" = 0 OR "+column+" > ?)")
		qb.params = append(qb.params, now)
	}
	return qb
}

// Expired matches rows with a non-zero expiry at or before now
func (qb *QueryBuilder) Expired(column string, now int64) *QueryBuilder {
	if qb.names(column) {
		qb.where = append(qb.where, "("+column+" != 0 AND "+column+" <= ?)")
		qb.params = append(qb.params, now)
	}
	return qb
}

// InsertOrReplace starts an upsert into table
func (qb *QueryBuilder) InsertOrReplace(table string) *QueryBuilder {
	if qb.names(table) {
		qb.parts = append(qb.parts, "INSERT OR REPLACE INTO "+table)
	}
	return qb
}

// Values adds the column list and one placeholder per column
func (qb *QueryBuilder) Values(columns []string, values []interface{}) *QueryBuilder {
	if len(columns) != len(values) {
		qb.err = fmt.Errorf("%d columns but %d values", len(columns), len(values))
		return qb
	}
	if !qb.names(columns...) {
		return qb
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	qb.parts = append(qb.parts, "("+strings.Join(columns, ", ")+") VALUES ("+placeholders+")")
	qb.params = append(qb.params, values...)
	return qb
}

// Delete starts a DELETE from table
func (qb *QueryBuilder) Delete(table string) *QueryBuilder {
	if qb.names(table) {
		qb.parts = append(qb.parts, "DELETE FROM "+table)
	}
	return qb
}

// Build returns the statement and its parameters
func (qb *QueryBuilder) Build() (string, []interface{}, error) {
	if qb.err != nil {
		return "", nil, qb.err
	}
	query := strings.Join(qb.parts, " ")
	if len(qb.where) > 0 {
		query += " WHERE " + strings.Join(qb.where, " AND ")
	}
	return query, qb.params, nil
}

// ValidateKey rejects keys the store cannot hold and warns about keys
// that look like injection attempts. Parameterization makes those safe;
// the warning only flags a misbehaving caller.
func ValidateKey(key string, logger interfaces.Logger) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: max %d characters", maxKeyLength)
	}
	if strings.Contains(key, "\x00") {
		return errors.New("key cannot contain null bytes")
	}

	if logger != nil {
		for _, pattern := range []string{"--", "/*", "*/", ";", "'", "\"", "\\", "\n", "\r"} {
			if strings.Contains(key, pattern) {
				logger.Warn("Suspicious pattern detected in cache key", map[string]interface{}{
					"pattern":     pattern,
					"key_length":  len(key),
					"key_preview": truncateKey(key),
				})
				break
			}
		}
	}
	return nil
}

func truncateKey(key string) string {
	const maxPreview = 50
	if len(key) <= maxPreview {
		return key
	}
	return key[:maxPreview] + "..."
}

// ValidateValue bounds value size. Empty values are allowed: an empty
// fragment converts to empty Markdown.
func ValidateValue(value []byte) error {
	if len(value) > maxValueLength {
		return fmt.Errorf("value too large: max %d bytes", maxValueLength)
	}
	return nil
}
