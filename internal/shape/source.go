package shape

import "fmt"

// SourceLocation points at the place a shape or trait was defined.
type SourceLocation struct {
	Filename string
	Line     uint32
	Column   uint32
}

// IsZero reports whether the location is unknown.
func (l SourceLocation) IsZero() bool { return l == SourceLocation{} }

func (l SourceLocation) String() string {
	switch {
	case l.Filename == "":
		return "N/A"
	case l.Line == 0:
		return l.Filename
	default:
		return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
	}
}
