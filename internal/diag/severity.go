package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of an event.
type Severity uint8

const (
	// SevNote is informational; never breaking.
	SevNote Severity = iota
	// SevWarning is informational; never breaking.
	SevWarning
	// SevDanger is breaking unless explicitly suppressed upstream.
	SevDanger
	SevError
)

// Severities lists every level in ascending order.
var Severities = [...]Severity{SevNote, SevWarning, SevDanger, SevError}

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevDanger:
		return "DANGER"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the level names case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NOTE":
		return SevNote, nil
	case "WARNING":
		return SevWarning, nil
	case "DANGER":
		return SevDanger, nil
	case "ERROR":
		return SevError, nil
	}
	return SevNote, fmt.Errorf("invalid severity %q (expected NOTE|WARNING|DANGER|ERROR)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
