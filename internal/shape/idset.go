package shape

import (
	"iter"
	"slices"
	"strings"
)

// IDSet is an immutable, sorted, duplicate-free set of shape IDs.
type IDSet struct {
	ids []ShapeID
}

// NewIDSet builds a set from ids in any order; duplicates collapse.
func NewIDSet(ids ...ShapeID) IDSet {
	if len(ids) == 0 {
		return IDSet{}
	}
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, ShapeID.Compare)
	return IDSet{ids: slices.Compact(sorted)}
}

// Len returns the number of IDs.
func (s IDSet) Len() int { return len(s.ids) }

// IDs returns a copy of the IDs in lexical order.
func (s IDSet) IDs() []ShapeID { return slices.Clone(s.ids) }

// All iterates the IDs in lexical order.
func (s IDSet) All() iter.Seq[ShapeID] {
	return func(yield func(ShapeID) bool) {
		for _, id := range s.ids {
			if !yield(id) {
				return
			}
		}
	}
}

// Contains reports membership in O(log n).
func (s IDSet) Contains(id ShapeID) bool {
	_, ok := slices.BinarySearchFunc(s.ids, id, ShapeID.Compare)
	return ok
}

// Minus returns the IDs of s that are not in other, in lexical order.
func (s IDSet) Minus(other IDSet) IDSet {
	out := make([]ShapeID, 0, len(s.ids))
	i, j := 0, 0
	for i < len(s.ids) {
		if j >= len(other.ids) {
			out = append(out, s.ids[i:]...)
			break
		}
		switch c := s.ids[i].Compare(other.ids[j]); {
		case c < 0:
			out = append(out, s.ids[i])
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}
	return IDSet{ids: out}
}

// Equal reports whether both sets hold the same IDs.
func (s IDSet) Equal(other IDSet) bool {
	return slices.Equal(s.ids, other.ids)
}

func (s IDSet) String() string {
	parts := make([]string, len(s.ids))
	for i, id := range s.ids {
		parts[i] = id.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
