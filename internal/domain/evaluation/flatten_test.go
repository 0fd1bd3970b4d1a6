package evaluation

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/fieldeval/internal/domain"
)

func TestFlatten_Nested(t *testing.T) {
	tree := map[string]any{
		"vendor": map[string]any{"name": "ACME", "country": "US"},
		"items": []any{
			map[string]any{"sku": "X1", "qty": 2.0},
			"loose",
		},
		"total": 10.5,
		"note":  nil,
	}

	f, err := Flatten(tree)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	want := []string{"items.0.qty", "items.0.sku", "items.1", "note", "total", "vendor.country", "vendor.name"}
	if diff := cmp.Diff(want, f.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if f.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", f.Len(), len(want))
	}
	if v, ok := f.Value("items.1"); !ok || v != "loose" {
		t.Errorf("Value(items.1) = %v, %v", v, ok)
	}
	if v, ok := f.Value("note"); !ok || v != nil {
		t.Errorf("Value(note) = %v, %v", v, ok)
	}
}

func TestFlatten_EmptyContainersHaveNoLeaves(t *testing.T) {
	f, err := Flatten(map[string]any{"a": map[string]any{}, "b": []any{}})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (paths %v)", f.Len(), f.Paths())
	}
}

func TestFlatten_RootArray(t *testing.T) {
	f, err := Flatten([]any{"a", 1.0})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if diff := cmp.Diff([]string{"0", "1"}, f.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_ScalarRoot(t *testing.T) {
	_, err := Flatten("just a string")
	if !errors.Is(err, domain.ErrInvalidFieldStructure) {
		t.Errorf("expected ErrInvalidFieldStructure, got %v", err)
	}
}

func TestFlatten_UnsupportedLeaf(t *testing.T) {
	_, err := Flatten(map[string]any{"ch": make(chan int)})
	if !errors.Is(err, domain.ErrInvalidFieldStructure) {
		t.Errorf("expected ErrInvalidFieldStructure, got %v", err)
	}
}

func TestFlatten_DottedKeyCollision(t *testing.T) {
	tests := []struct {
		name string
		tree map[string]any
	}{
		{
			name: "flat key after nested leaf",
			tree: map[string]any{
				"a.b": "flat",
				"a":   map[string]any{"b": "nested"},
			},
		},
		{
			name: "array index against dotted key",
			tree: map[string]any{
				"x.0": 1.0,
				"x":   []any{2.0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten(tt.tree)
			if !errors.Is(err, domain.ErrInvalidFieldStructure) {
				t.Fatalf("expected ErrInvalidFieldStructure, got %v", err)
			}
			if !strings.Contains(err.Error(), "duplicate path") {
				t.Errorf("error %q does not name the duplicate path", err)
			}
		})
	}
}

func TestFlatten_DottedKeyWithoutCollision(t *testing.T) {
	f, err := Flatten(map[string]any{
		"a.b": "flat",
		"a":   map[string]any{"c": "nested"},
	})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if diff := cmp.Diff([]string{"a.b", "a.c"}, f.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_Values(t *testing.T) {
	tests := []struct {
		name string
		tree any
		want map[string]any
	}{
		{
			name: "nested keys sorted",
			tree: map[string]any{"a": map[string]any{"z": 1.0, "a": 2.0}},
			want: map[string]any{"a.a": 2.0, "a.z": 1.0},
		},
		{
			name: "array indices",
			tree: map[string]any{"x": []any{10.0, 20.0}},
			want: map[string]any{"x.0": 10.0, "x.1": 20.0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Flatten(tt.tree)
			if err != nil {
				t.Fatalf("Flatten: %v", err)
			}
			got := make(map[string]any, f.Len())
			for _, p := range f.Paths() {
				got[p], _ = f.Value(p)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
			wantPaths := make([]string, 0, len(tt.want))
			for p := range tt.want {
				wantPaths = append(wantPaths, p)
			}
			sort.Strings(wantPaths)
			if diff := cmp.Diff(wantPaths, f.Paths()); diff != "" {
				t.Errorf("paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlatten_PathsReturnsCopy(t *testing.T) {
	f, err := Flatten(map[string]any{"a": 1.0})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	p := f.Paths()
	p[0] = "mutated"
	if f.Paths()[0] != "a" {
		t.Error("Paths() exposed internal slice")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		v    any
		want ValueKind
	}{
		{nil, KindNull},
		{true, KindBool},
		{"x", KindString},
		{1.5, KindNumber},
		{42, KindNumber},
		{uint8(3), KindNumber},
		{json.Number("7"), KindNumber},
		{map[string]any{}, KindUnsupported},
		{[]any{}, KindUnsupported},
	}
	for _, tt := range tests {
		if got := KindOf(tt.v); got != tt.want {
			t.Errorf("KindOf(%#v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}
