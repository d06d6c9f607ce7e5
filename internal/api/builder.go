package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/servicem8/sm8-cli/internal/schema"
)

// Clause is one predicate of an OData-ish $filter expression.
type Clause struct {
	Field    string
	Operator string
	Value    string
}

// Supported comparison operators. The API grammar stops here: no
// grouping, no "or", no functions.
var validOperators = map[string]bool{
	"eq": true,
	"ne": true,
	"gt": true,
	"lt": true,
}

// BuildFilter renders clauses into a $filter expression: each clause
// becomes "field op value" and clauses are joined with " and ". Values
// of integer and float catalog fields stay bare and must parse as
// numbers; everything else is single-quoted with embedded quotes
// doubled. Fields missing from the catalog are treated as strings.
// Date and datetime values are normalized to wire format first.
//
// An empty clause list yields "", which callers must translate into
// omitting the $filter parameter entirely.
func BuildFilter(resource string, clauses []Clause) (string, error) {
	if len(clauses) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		if clause.Field == "" {
			return "", &ValidationError{Reason: "filter clause has an empty field name"}
		}
		if !validOperators[clause.Operator] {
			return "", &ValidationError{
				Field:  clause.Field,
				Reason: fmt.Sprintf("unsupported filter operator %q (use eq, ne, gt or lt)", clause.Operator),
			}
		}

		value := clause.Value
		switch schema.TypeOf(resource, clause.Field) {
		case schema.FieldInteger, schema.FieldFloat:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return "", &ValidationError{
					Field:  clause.Field,
					Reason: fmt.Sprintf("expected a numeric value, got %q", value),
				}
			}
			parts = append(parts, clause.Field+" "+clause.Operator+" "+value)
		case schema.FieldDate, schema.FieldDateTime:
			normalized, err := ToWireDateTime(value)
			if err != nil {
				return "", err
			}
			parts = append(parts, clause.Field+" "+clause.Operator+" '"+normalized+"'")
		default:
			parts = append(parts, clause.Field+" "+clause.Operator+" '"+quoteEscape(value)+"'")
		}
	}
	return strings.Join(parts, " and "), nil
}

// quoteEscape doubles single quotes so a value cannot terminate the
// quoted literal it is interpolated into.
func quoteEscape(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// FieldValue is one field assignment for a create or update body.
type FieldValue struct {
	Name  string
	Value string
}

// BuildBody assembles a request body from field assignments. Values of
// integer and float catalog fields are coerced to numbers, date and
// datetime values are normalized to wire format, everything else passes
// through as a string. Duplicate names resolve last-write-wins. An empty
// field list yields an empty map.
func BuildBody(resource string, fields []FieldValue) (map[string]any, error) {
	body := map[string]any{}
	for _, field := range fields {
		if field.Name == "" {
			return nil, &ValidationError{Reason: "body field has an empty name"}
		}
		switch schema.TypeOf(resource, field.Name) {
		case schema.FieldInteger:
			n, err := strconv.Atoi(field.Value)
			if err != nil {
				return nil, &ValidationError{
					Field:  field.Name,
					Reason: fmt.Sprintf("expected an integer value, got %q", field.Value),
				}
			}
			body[field.Name] = n
		case schema.FieldFloat:
			f, err := strconv.ParseFloat(field.Value, 64)
			if err != nil {
				return nil, &ValidationError{
					Field:  field.Name,
					Reason: fmt.Sprintf("expected a numeric value, got %q", field.Value),
				}
			}
			body[field.Name] = f
		case schema.FieldDate, schema.FieldDateTime:
			normalized, err := ToWireDateTime(field.Value)
			if err != nil {
				return nil, err
			}
			body[field.Name] = normalized
		default:
			body[field.Name] = field.Value
		}
	}
	return body, nil
}
