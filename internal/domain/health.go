package domain

// HealthStatus indicates doctor check outcomes.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "fail"
)

// HealthCheck captures a single diagnostic result.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
	Hint    string
}

// HealthReport aggregates checks.
type HealthReport struct {
	Checks []HealthCheck
}

// Overall folds all checks into the worst status seen.
func (r HealthReport) Overall() HealthStatus {
	overall := HealthOK
	for _, c := range r.Checks {
		switch c.Status {
		case HealthError:
			return HealthError
		case HealthWarn:
			overall = HealthWarn
		}
	}
	return overall
}
