// Package json implements the JSONPath hash extraction mode using
// github.com/ohler55/ojg, grounded on the JSONPath usage found in
// flanksource-deps and gravitational-teleport manifests.
package json

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Extract parses body as JSON and evaluates path against it, returning
// the first matching value formatted as a string.
func Extract(body []byte, path string) (string, error) {
	obj, err := oj.Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse json body: %w", err)
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return "", fmt.Errorf("parse jsonpath %q: %w", path, err)
	}
	results := expr.Get(obj)
	if len(results) == 0 {
		return "", fmt.Errorf("jsonpath %q matched nothing", path)
	}
	return fmt.Sprint(results[0]), nil
}
