// internal/filter/filter.go
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression fixes shell-escaped operators in jq expressions.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// Apply applies a JQ filter expression to the input data.
func Apply(data interface{}, expression string) (interface{}, error) {
	if expression == "" {
		return data, nil
	}

	expression = NormalizeExpression(expression)
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	results, err := runQuery(query, data)
	if err != nil {
		if items, ok := itemsQueryFallbackData(data, expression, err); ok {
			if fallbackResults, fallbackErr := runQuery(query, items); fallbackErr == nil {
				results = fallbackResults
				err = nil
			}
		}
	}
	if err != nil {
		return nil, err
	}

	return collapseQueryResults(results), nil
}

func runQuery(query *gojq.Query, data interface{}) ([]interface{}, error) {
	iter := query.Run(data)

	var results []interface{}
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapseQueryResults(results []interface{}) interface{} {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

// itemsQueryFallbackData handles root-array queries (.[] ...) run against the
// {"items": [...]} wrapper used for list output. The query is retried against
// the inner array so users can write .[] without knowing about the wrapper.
func itemsQueryFallbackData(data interface{}, expression string, runErr error) (interface{}, bool) {
	if runErr == nil || !looksLikeRootArrayQuery(expression) {
		return nil, false
	}
	if !strings.Contains(runErr.Error(), "expected an object but got: array") {
		return nil, false
	}

	m, ok := data.(map[string]interface{})
	if !ok {
		return nil, false
	}

	items, ok := m["items"]
	if !ok {
		return nil, false
	}

	if _, ok := items.([]interface{}); !ok {
		return nil, false
	}

	return items, true
}

func looksLikeRootArrayQuery(expression string) bool {
	expr := strings.TrimSpace(expression)
	return strings.HasPrefix(expr, ".[]") || strings.HasPrefix(expr, "[.[]") || strings.HasPrefix(expr, "(.[]")
}

// ApplyToJSON applies filter to JSON bytes and returns filtered JSON bytes (pretty-printed).
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}

	var data interface{}
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	result, err := Apply(data, expression)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(result, "", "  ")
}

// ApplyFromJSON applies a JQ filter to JSON bytes and returns the result as a Go value.
// Unlike ApplyToJSON, this returns the unmarshaled value for the caller to format.
func ApplyFromJSON(jsonData []byte, expression string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}
