package diag

// Policy decides which severities fail a build.
type Policy struct {
	Threshold Severity
}

// DefaultPolicy treats DANGER and ERROR as breaking.
var DefaultPolicy = Policy{Threshold: SevDanger}

// IsBreaking reports whether sev fails the build under this policy.
func (p Policy) IsBreaking(sev Severity) bool {
	return sev >= p.Threshold
}

// Breaking returns the events that fail the build, preserving order.
func (p Policy) Breaking(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if p.IsBreaking(e.Severity) {
			out = append(out, e)
		}
	}
	return out
}

// AnyBreaking reports whether at least one event fails the build.
func (p Policy) AnyBreaking(events []Event) bool {
	for _, e := range events {
		if p.IsBreaking(e.Severity) {
			return true
		}
	}
	return false
}

// IsBreaking applies DefaultPolicy.
func IsBreaking(sev Severity) bool {
	return DefaultPolicy.IsBreaking(sev)
}
