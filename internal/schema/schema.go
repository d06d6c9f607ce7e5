// Package schema is the registry of API resources: which operations each
// resource supports, the endpoint template and URL parameters for every
// operation, and the typed field catalog used for filter and body
// building.
//
// Resources are registered explicitly at init time; lookups against an
// unknown resource or operation fail with an error naming the offender.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldType describes how a field value travels on the wire. String-like
// types are single-quoted in $filter expressions; integer and float
// values stay bare and are coerced in request bodies.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldText     FieldType = "text"
	FieldInteger  FieldType = "integer"
	FieldFloat    FieldType = "float"
	FieldBoolean  FieldType = "boolean"
	FieldDate     FieldType = "date"
	FieldDateTime FieldType = "dateTime"
	FieldUUID     FieldType = "uuid"
	FieldEnum     FieldType = "enum"
)

// Field describes one member of a resource's record type.
type Field struct {
	Name       string
	Label      string
	Type       FieldType
	Filterable bool
}

// Operation describes one endpoint of a resource. Endpoint is a path
// template relative to the API version root and may contain {param}
// placeholders listed in URLParams.
type Operation struct {
	Method    string
	Endpoint  string
	URLParams []string
}

// Resource bundles a field catalog with the operations the API exposes
// for it. Object is the underlying API object name, which may differ
// from the resource name (resource "client" is object "company").
type Resource struct {
	Name       string
	Object     string
	Fields     []Field
	Operations map[string]Operation
}

var registry = map[string]*Resource{}

// Register adds a resource to the registry. It panics on duplicates,
// which only happens on a programming error at init time.
func Register(r *Resource) {
	if _, exists := registry[r.Name]; exists {
		panic(fmt.Sprintf("schema: resource %q already registered", r.Name))
	}
	registry[r.Name] = r
}

// Get returns the named resource.
func Get(name string) (*Resource, error) {
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", name)
	}
	return r, nil
}

// Resources returns all registered resource names, sorted.
func Resources() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operation returns the named operation of the resource.
func (r *Resource) Operation(name string) (Operation, error) {
	op, ok := r.Operations[name]
	if !ok {
		return Operation{}, fmt.Errorf("resource %q does not support operation %q", r.Name, name)
	}
	return op, nil
}

// Field returns the named field of the resource, or false when the
// catalog does not know it.
func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FilterableFields returns the subset of the catalog usable in $filter.
func (r *Resource) FilterableFields() []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Filterable {
			out = append(out, f)
		}
	}
	return out
}

// TypeOf returns the catalog type of a resource field. Unknown
// resources and unknown fields default to string, matching the wire
// behavior of treating unrecognized values as opaque text.
func TypeOf(resource, field string) FieldType {
	r, ok := registry[resource]
	if !ok {
		return FieldString
	}
	f, ok := r.Field(field)
	if !ok {
		return FieldString
	}
	return f.Type
}

// ExpandEndpoint substitutes {param} placeholders in an operation's
// endpoint template. Values are trimmed of surrounding whitespace.
// Missing or empty parameters are an error, as is a template placeholder
// left unfilled.
func ExpandEndpoint(op Operation, params map[string]string) (string, error) {
	endpoint := op.Endpoint
	for _, param := range op.URLParams {
		value := strings.TrimSpace(params[param])
		if value == "" {
			return "", fmt.Errorf("missing required URL parameter %q", param)
		}
		endpoint = strings.ReplaceAll(endpoint, "{"+param+"}", value)
	}
	if i := strings.IndexByte(endpoint, '{'); i >= 0 {
		return "", fmt.Errorf("endpoint template %q has an unbound parameter", op.Endpoint)
	}
	return endpoint, nil
}
