package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Check validates gateway responses: an optional JSON Schema the body
// must satisfy, plus named gjson paths to pull out of it.
type Check struct {
	schema  *jsonschema.Schema
	extract map[string]string
}

// CheckResult is the outcome of applying a Check to one response body.
type CheckResult struct {
	Extracted  map[string]string `json:"extracted,omitempty"`
	Violations []string          `json:"violations,omitempty"`
}

// OK reports whether the body satisfied the schema.
func (r CheckResult) OK() bool {
	return len(r.Violations) == 0
}

// NewCheck compiles the schema once so every response reuses it.
// An empty schema means only extraction is performed.
func NewCheck(schemaJSON string, extract map[string]string) (*Check, error) {
	check := &Check{extract: extract}

	if schemaJSON != "" {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("response.json", strings.NewReader(schemaJSON)); err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		schema, err := compiler.Compile("response.json")
		if err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		check.schema = schema
	}

	return check, nil
}

// Apply runs the check against a response.
func (c *Check) Apply(resp *Response) CheckResult {
	var out CheckResult

	if c.schema != nil {
		var doc interface{}
		if err := json.Unmarshal(resp.Body, &doc); err != nil {
			out.Violations = append(out.Violations, fmt.Sprintf("invalid JSON: %v", err))
		} else if err := c.schema.Validate(doc); err != nil {
			if verr, ok := err.(*jsonschema.ValidationError); ok {
				out.Violations = append(out.Violations, flattenViolations(verr)...)
			} else {
				out.Violations = append(out.Violations, err.Error())
			}
		}
	}

	if len(c.extract) > 0 {
		out.Extracted = make(map[string]string, len(c.extract))
		for name, path := range c.extract {
			if value, ok := resp.Field(path); ok {
				out.Extracted[name] = value
			}
		}
	}

	return out
}

// flattenViolations collects leaf messages from a validation error tree.
func flattenViolations(err *jsonschema.ValidationError) []string {
	var out []string
	if err.Message != "" {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		out = append(out, fmt.Sprintf("%s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		out = append(out, flattenViolations(cause)...)
	}
	return out
}
