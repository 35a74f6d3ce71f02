// Package repository implements data persistence for documents and doctype metadata.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Document field data is stored as a JSON column; a fixed
// set of attributes (name, owner, parent, parenttype) are promoted to real
// columns so they can be filtered and indexed directly.
package repository

import (
	"fmt"
	"regexp"
	"strings"

	docDomain "github.com/allisson/docrest/internal/document/domain"
	apperrors "github.com/allisson/docrest/internal/errors"
)

// columnFields are document attributes stored as real columns rather than
// inside the JSON data blob.
var columnFields = map[string]struct{}{
	"name":       {},
	"owner":      {},
	"parent":     {},
	"parenttype": {},
}

var allowedOperators = map[string]string{
	"=":    "=",
	"!=":   "!=",
	">":    ">",
	"<":    "<",
	">=":   ">=",
	"<=":   "<=",
	"like": "LIKE",
}

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// orderByColumns are the only sortable expressions; anything else falls back
// to the default ordering.
var orderByColumns = map[string]string{
	"name":          "name",
	"creation":      "created_at",
	"modified":      "updated_at",
	"creation asc":  "created_at ASC",
	"creation desc": "created_at DESC",
	"modified asc":  "updated_at ASC",
	"modified desc": "updated_at DESC",
	"name asc":      "name ASC",
	"name desc":     "name DESC",
}

// buildWhere renders filter conditions for the given driver, appending bind
// values to args. The placeholder index starts after the already-bound
// doctype argument.
func buildWhere(driver string, filters []docDomain.Filter, args *[]any) (string, error) {
	var conditions []string

	for _, f := range filters {
		if !fieldNamePattern.MatchString(f.Field) {
			return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid filter field %q", f.Field)
		}

		op, ok := allowedOperators[strings.ToLower(f.Operator)]
		if !ok {
			return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid filter operator %q", f.Operator)
		}

		var expr string
		if _, isColumn := columnFields[f.Field]; isColumn {
			expr = f.Field
		} else if driver == "postgres" {
			expr = fmt.Sprintf("data->>'%s'", f.Field)
		} else {
			expr = fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(data, '$.%s'))", f.Field)
		}

		*args = append(*args, f.Value)
		if driver == "postgres" {
			conditions = append(conditions, fmt.Sprintf("%s %s $%d", expr, op, len(*args)))
		} else {
			conditions = append(conditions, fmt.Sprintf("%s %s ?", expr, op))
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(conditions, " AND "), nil
}

// orderClause maps a requested order_by onto a safe column expression.
// Unrecognized values fall back to last-modified-first.
func orderClause(orderBy string) string {
	if col, ok := orderByColumns[strings.ToLower(strings.TrimSpace(orderBy))]; ok {
		return col
	}
	return "updated_at DESC"
}
