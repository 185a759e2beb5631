// Package validate checks request body, query and params against JSON
// Schemas and fails the request with 400 and per-field details.
package validate

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/codec"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
)

// FieldError is one entry of the 400 response's details.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Received any    `json:"received,omitempty"`
}

// Locals set once a part of the request has passed validation.
const (
	ValidatedBody   = "validated.body"
	ValidatedQuery  = "validated.query"
	ValidatedParams = "validated.params"
)

type Schema struct {
	s *gojsonschema.Schema
}

// Compile parses a JSON Schema document.
func Compile(schema string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{s: s}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(schema string) *Schema {
	s, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return s
}

// Check validates doc and returns the violations, if any.
func (s *Schema) Check(doc any) ([]FieldError, error) {
	res, err := s.s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}
	out := make([]FieldError, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		field := e.Field()
		if field == "(root)" {
			field = ""
		}
		if p, ok := e.Details()["property"].(string); ok && e.Type() == "required" &&
			field != p && !strings.HasSuffix(field, "."+p) {
			field = strings.TrimPrefix(field+"."+p, ".")
		}
		out = append(out, FieldError{
			Field:    field,
			Message:  e.Description(),
			Code:     e.Type(),
			Received: e.Value(),
		})
	}
	return out, nil
}

func hook(s *Schema, message, local string, part func(*event.Context) any) event.RequestHook {
	return func(c *event.Context) error {
		details, err := s.Check(part(c))
		if err != nil {
			return event.BadRequest(message).WithCause(err)
		}
		if len(details) > 0 {
			return event.BadRequest(message).WithDetails(details)
		}
		c.Set(local, true)
		return nil
	}
}

// Body validates the decoded JSON body.
func Body(s *Schema) event.RequestHook {
	return hook(s, "Validation failed", ValidatedBody, func(c *event.Context) any { return c.Body })
}

// Query validates the query string; each key maps to its first value.
func Query(s *Schema) event.RequestHook {
	return hook(s, "Invalid query parameters", ValidatedQuery, func(c *event.Context) any {
		q := make(map[string]any, len(c.Query))
		for k, v := range c.Query {
			if len(v) > 0 {
				q[k] = v[0]
			}
		}
		return q
	})
}

// Params validates the route parameters.
func Params(s *Schema) event.RequestHook {
	return hook(s, "Invalid URL parameters", ValidatedParams, func(c *event.Context) any {
		p := make(map[string]any, len(c.Params))
		for k, v := range c.Params {
			p[k] = v
		}
		return p
	})
}

// Bind decodes the request body strictly into T. Unknown fields and type
// mismatches fail with 400.
func Bind[T any](c *event.Context) (T, error) {
	var out T
	if c.Body == nil {
		return out, event.BadRequest("Validation failed").WithDetails([]FieldError{
			{Message: "request body required", Code: "required"},
		})
	}
	raw, err := codec.JSON.Marshal(c.Body)
	if err != nil {
		return out, err
	}
	if err := codec.JSONStrict.Unmarshal(raw, &out); err != nil {
		return out, event.BadRequest("Validation failed").WithDetails([]FieldError{
			{Message: err.Error(), Code: "invalid_type"},
		})
	}
	return out, nil
}
