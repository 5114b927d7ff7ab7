// Package search translates user-supplied wildcard terms into safe SQL
// LIKE patterns. The user-facing wildcard is *; the LIKE metacharacters
// %, _ and the escape character itself are escaped first so they match
// literally.
package search

import (
	"strings"

	"gorm.io/gorm"
)

// escaper neutralizes LIKE metacharacters before the * translation runs.
// Order matters: the backslash must be doubled before % and _ gain theirs.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// LikePattern converts a wildcard term into a LIKE pattern wrapped for
// substring matching. Blank or whitespace-only terms report ok=false and
// disable filtering entirely.
func LikePattern(term string) (pattern string, ok bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", false
	}
	escaped := escaper.Replace(term)
	return "%" + strings.ReplaceAll(escaped, "*", "%") + "%", true
}

// Scope returns a GORM scope matching term against any of the given
// columns, case-insensitively. A blank term leaves the query untouched.
// Column names must come from code, never from user input.
func Scope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		pattern, ok := LikePattern(term)
		if !ok || len(columns) == 0 {
			return db
		}

		var cond strings.Builder
		args := make([]interface{}, 0, len(columns))
		for i, col := range columns {
			if i > 0 {
				cond.WriteString(" OR ")
			}
			cond.WriteString("LOWER(" + col + ") LIKE LOWER(?) ESCAPE '\\'")
			args = append(args, pattern)
		}
		return db.Where(cond.String(), args...)
	}
}
