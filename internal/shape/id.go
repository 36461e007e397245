package shape

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidShapeID reports a malformed absolute shape identifier.
var ErrInvalidShapeID = errors.New("invalid shape id")

// ShapeID is an absolute shape identifier. The zero value is the empty ID and is
// only used for events that are not attached to a shape.
type ShapeID struct {
	namespace string
	name      string
	member    string
}

// ParseShapeID parses `namespace#name` or `namespace#name$member`.
func ParseShapeID(s string) (ShapeID, error) {
	hash := strings.IndexByte(s, '#')
	if hash < 0 {
		return ShapeID{}, fmt.Errorf("%w: %q has no namespace", ErrInvalidShapeID, s)
	}
	ns, rest := s[:hash], s[hash+1:]
	name, member, hasMember := strings.Cut(rest, "$")
	if !isNamespace(ns) {
		return ShapeID{}, fmt.Errorf("%w: %q has a malformed namespace", ErrInvalidShapeID, s)
	}
	if !isIdentifier(name) {
		return ShapeID{}, fmt.Errorf("%w: %q has a malformed name", ErrInvalidShapeID, s)
	}
	if hasMember && !isIdentifier(member) {
		return ShapeID{}, fmt.Errorf("%w: %q has a malformed member name", ErrInvalidShapeID, s)
	}
	return ShapeID{namespace: ns, name: name, member: member}, nil
}

// MustParseShapeID is ParseShapeID that panics on error. Intended for constants and tests.
func MustParseShapeID(s string) ShapeID {
	id, err := ParseShapeID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Namespace returns the namespace part.
func (id ShapeID) Namespace() string { return id.namespace }

// Name returns the shape name without namespace and member.
func (id ShapeID) Name() string { return id.name }

// Member returns the member name, or "" for non-member IDs.
func (id ShapeID) Member() string { return id.member }

// HasMember reports whether the ID addresses a member.
func (id ShapeID) HasMember() bool { return id.member != "" }

// IsZero reports whether id is the empty ID.
func (id ShapeID) IsZero() bool { return id == ShapeID{} }

// WithMember returns the member ID `namespace#name$member`.
func (id ShapeID) WithMember(member string) (ShapeID, error) {
	if !isIdentifier(member) {
		return ShapeID{}, fmt.Errorf("%w: member %q of %s", ErrInvalidShapeID, member, id)
	}
	return ShapeID{namespace: id.namespace, name: id.name, member: member}, nil
}

// Container returns the ID without its member part.
func (id ShapeID) Container() ShapeID {
	return ShapeID{namespace: id.namespace, name: id.name}
}

func (id ShapeID) String() string {
	if id.IsZero() {
		return ""
	}
	if id.member == "" {
		return id.namespace + "#" + id.name
	}
	return id.namespace + "#" + id.name + "$" + id.member
}

// Compare orders IDs lexically by their canonical string form.
func (id ShapeID) Compare(other ShapeID) int {
	return strings.Compare(id.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (id ShapeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ShapeID) UnmarshalText(b []byte) error {
	parsed, err := ParseShapeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func isNamespace(s string) bool {
	if s == "" {
		return false
	}
	for part := range strings.SplitSeq(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

// identifier = (ALPHA / "_") *(ALPHA / DIGIT / "_")
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
