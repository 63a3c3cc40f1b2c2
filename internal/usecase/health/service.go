package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckEmpty indicates a reachable component with nothing configured.
	CheckEmpty CheckResult = "empty"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Filters int
	Frozen  bool
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	registry Registry
}

// New creates a Service. db can be nil when filters are not persisted.
func New(db DBPinger, registry Registry) *Service {
	return &Service{db: db, registry: registry}
}

// Check runs health checks against all components.
// An empty registry is reported but does not degrade the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	n := s.registry.Len()
	if n == 0 {
		checks["registry"] = CheckEmpty
	} else {
		checks["registry"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, Filters: n, Frozen: s.registry.Frozen()}
}
