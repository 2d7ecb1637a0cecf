package domain

// ErrorFilter narrows the error log blocks handed to analysis.
type ErrorFilter struct {
	Since string
	Grep  string
	// Last keeps only the final N blocks; values below one mean one.
	Last int
}

// Active returns the filters in "name=value" form for prompts.
func (f ErrorFilter) Active() []string {
	var out []string
	if f.Since != "" {
		out = append(out, "since="+f.Since)
	}
	if f.Grep != "" {
		out = append(out, "grep="+f.Grep)
	}
	return out
}
