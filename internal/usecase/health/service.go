package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot evaluate anything.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	reference ReferenceChecker
	db        DBPinger
}

// New creates a Service. db can be nil when no store is configured.
func New(reference ReferenceChecker, db DBPinger) *Service {
	return &Service{reference: reference, db: db}
}

// Check runs health checks against all components. A broken reference makes
// the service unhealthy; a broken store only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.reference.CheckReference(ctx); err != nil {
		checks["reference"] = CheckError
		status = Unhealthy
	} else {
		checks["reference"] = CheckOK
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["store"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["store"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
