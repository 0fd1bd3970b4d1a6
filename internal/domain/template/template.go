// Package template holds the canonical page extraction template that
// extractors fill in and the evaluator scores against.
package template

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
)

//go:embed page_extraction_template.json
var raw []byte

var parsed = sync.OnceValues(func() (map[string]any, error) {
	var v map[string]any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse extraction template: %w", err)
	}
	return v, nil
})

// Raw returns the template JSON as embedded.
func Raw() []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

// Value returns the decoded template. The result is shared; do not mutate.
func Value() (map[string]any, error) {
	return parsed()
}

// FieldNames returns the top-level keys of the template's "fields" object.
func FieldNames() ([]string, error) {
	v, err := Value()
	if err != nil {
		return nil, err
	}
	fields, ok := v["fields"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("extraction template has no fields object")
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	return names, nil
}
