package sdk

import "context"

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status  string            // "ok", "degraded"
	Checks  map[string]string // component → "ok"/"empty"/"error"
	Filters int
	Frozen  bool
}

// Health checks the database and the filter registry.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:  string(report.Status),
		Checks:  checks,
		Filters: report.Filters,
		Frozen:  report.Frozen,
	}
}
