package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockReferenceChecker struct {
	err error
}

func (m *mockReferenceChecker) CheckReference(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		refErr    error
		db        DBPinger
		status    Status
		reference CheckResult
		store     CheckResult // "" means absent
	}{
		{"all healthy", nil, &mockDBPinger{}, Healthy, CheckOK, CheckOK},
		{"no store", nil, nil, Healthy, CheckOK, ""},
		{"store down", nil, &mockDBPinger{err: errors.New("conn refused")}, Degraded, CheckOK, CheckError},
		{"reference broken", errors.New("corrupt"), &mockDBPinger{}, Unhealthy, CheckError, CheckOK},
		{"both broken", errors.New("corrupt"), &mockDBPinger{err: errors.New("down")}, Unhealthy, CheckError, CheckError},
		{"reference broken no store", errors.New("corrupt"), nil, Unhealthy, CheckError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockReferenceChecker{err: tc.refErr}, tc.db)
			r := svc.Check(context.Background())

			if r.Status != tc.status {
				t.Errorf("expected %q, got %q", tc.status, r.Status)
			}
			if r.Checks["reference"] != tc.reference {
				t.Errorf("expected reference %q, got %q", tc.reference, r.Checks["reference"])
			}
			got, ok := r.Checks["store"]
			if tc.store == "" {
				if ok {
					t.Error("store check should be absent when no store is configured")
				}
			} else if got != tc.store {
				t.Errorf("expected store %q, got %q", tc.store, got)
			}
		})
	}
}
