package domain

// UnitSuffix is appended to bare service names before matching.
const UnitSuffix = ".service"

// ServiceResolution is the outcome of mapping a user-typed service name onto
// an installed systemd unit.
type ServiceResolution struct {
	Requested   string   `json:"requested"`
	Resolved    string   `json:"resolved"`
	Changed     bool     `json:"changed"`
	Suggestions []string `json:"suggestions"`
	// Found is true when Resolved names a unit present in the enumerated set.
	Found bool `json:"found"`
}

// Ambiguous is true when no confident match exists but candidates do; the
// caller has to ask the user instead of guessing.
func (r ServiceResolution) Ambiguous() bool {
	return !r.Found && len(r.Suggestions) > 0
}

// Missing is true when nothing matched at all.
func (r ServiceResolution) Missing() bool {
	return !r.Found && len(r.Suggestions) == 0
}
