package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff    Level = iota
	LevelError        // only failures
	LevelPhase        // run and load boundaries
	LevelDetail       // per-evaluator spans
	LevelDebug        // everything
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for lvl, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(lvl), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeLoad
	case LevelDetail:
		return scope <= ScopeEvaluator
	case LevelDebug:
		return true
	default:
		return false
	}
}
