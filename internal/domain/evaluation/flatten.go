package evaluation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/fieldeval/internal/domain"
)

// Fields is a flattened document: dotted path -> scalar leaf value.
type Fields struct {
	paths  []string
	values map[string]any
}

// Len returns the number of leaf fields.
func (f Fields) Len() int { return len(f.paths) }

// Paths returns the leaf paths in lexicographic order.
func (f Fields) Paths() []string {
	out := make([]string, len(f.paths))
	copy(out, f.paths)
	return out
}

// Value returns the scalar stored at path.
func (f Fields) Value(path string) (any, bool) {
	v, ok := f.values[path]
	return v, ok
}

// Flatten walks tree and returns its scalar leaves keyed by dotted path.
// Object keys are visited in lexicographic order, array elements in index
// order. The root must be an object or an array, and no two leaves may
// share a path.
func Flatten(tree any) (Fields, error) {
	values := make(map[string]any)
	if err := flatten(tree, nil, values); err != nil {
		return Fields{}, err
	}

	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return Fields{paths: paths, values: values}, nil
}

func flatten(v any, path []string, out map[string]any) error {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flatten(x[k], append(path, k), out); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range x {
			if err := flatten(item, append(path, strconv.Itoa(i)), out); err != nil {
				return err
			}
		}
	default:
		if len(path) == 0 {
			return domain.ErrInvalidFieldStructure
		}
		if KindOf(v) == KindUnsupported {
			return fmt.Errorf("%w: unsupported value %T at %s",
				domain.ErrInvalidFieldStructure, v, strings.Join(path, "."))
		}
		// Keys containing "." can map two leaves onto one path.
		p := strings.Join(path, ".")
		if _, dup := out[p]; dup {
			return fmt.Errorf("%w: duplicate path %s", domain.ErrInvalidFieldStructure, p)
		}
		out[p] = v
	}
	return nil
}

// ValueKind classifies a scalar leaf.
type ValueKind uint8

// Scalar kinds.
const (
	KindUnsupported ValueKind = iota
	KindNull
	KindBool
	KindNumber
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unsupported"
	}
}

// KindOf returns the scalar kind of v. Containers are KindUnsupported.
func KindOf(v any) ValueKind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return KindNumber
	default:
		return KindUnsupported
	}
}

// asFloat converts a numeric leaf to float64.
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
