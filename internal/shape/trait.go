package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// PreludeNamespace is the namespace of the built-in traits.
const PreludeNamespace = "smithy.api"

var (
	// ErrInvalidTrait reports a trait that cannot be attached to a shape.
	ErrInvalidTrait = errors.New("invalid trait")
	// ErrNonFiniteNumber reports NaN or an infinity inside a trait value.
	ErrNonFiniteNumber = errors.New("non-finite number")
)

// Trait is a named, structurally valued annotation attached to a shape.
type Trait struct {
	name   string
	value  any
	source SourceLocation
}

// NewTrait builds a trait with an absolute name. The value is normalized so that
// traits decoded from different encodings compare equal when their content does.
func NewTrait(name string, value any, source SourceLocation) (Trait, error) {
	if !strings.Contains(name, "#") {
		return Trait{}, fmt.Errorf("%w: trait name %q is not absolute", ErrInvalidTrait, name)
	}
	if _, err := ParseShapeID(name); err != nil {
		return Trait{}, fmt.Errorf("%w: %w", ErrInvalidTrait, err)
	}
	norm, err := NormalizeNode(value)
	if err != nil {
		return Trait{}, fmt.Errorf("%w: %s: %w", ErrInvalidTrait, name, err)
	}
	return Trait{name: name, value: norm, source: source}, nil
}

// Name returns the absolute trait name.
func (t Trait) Name() string { return t.name }

// Value returns the normalized trait value. Callers must not modify it.
func (t Trait) Value() any { return t.value }

// Source returns where the trait was applied.
func (t Trait) Source() SourceLocation { return t.source }

// Equal compares name and value; the source location is ignored.
func (t Trait) Equal(other Trait) bool {
	return t.name == other.name && reflect.DeepEqual(t.value, other.value)
}

// TraitNamespace returns the namespace of a trait name, or defaultNamespace when
// the name is relative.
func TraitNamespace(name, defaultNamespace string) string {
	ns, _, found := strings.Cut(name, "#")
	if !found {
		return defaultNamespace
	}
	return ns
}

// RelativeTraitName returns the trait name without its namespace.
func RelativeTraitName(name string) string {
	_, rel, found := strings.Cut(name, "#")
	if !found {
		return name
	}
	return rel
}

// MakeAbsoluteTraitName qualifies a relative trait name with defaultNamespace.
// Absolute names are returned unchanged.
func MakeAbsoluteTraitName(name, defaultNamespace string) string {
	if strings.Contains(name, "#") {
		return name
	}
	return defaultNamespace + "#" + name
}

// IdiomaticTraitName strips the prelude namespace for use in messages.
func IdiomaticTraitName(name string) string {
	return strings.TrimPrefix(name, PreludeNamespace+"#")
}

// NormalizeNode converts a decoded value into the canonical node form: nil,
// bool, string, int64, uint64 (integers above MaxInt64 only), float64 (values
// with a fraction or out of integer range), []any and map[string]any. Equal
// numbers get the same representation whatever the source encoding, so 1 and
// 1.0 normalize alike and integers keep every digit. NaN and infinities are
// rejected.
func NormalizeNode(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string:
		return x, nil
	case float64:
		return floatNode(x)
	case float32:
		return floatNode(float64(x))
	case int:
		return intNode(x), nil
	case int8:
		return intNode(x), nil
	case int16:
		return intNode(x), nil
	case int32:
		return intNode(x), nil
	case int64:
		return x, nil
	case uint:
		return intNode(x), nil
	case uint8:
		return intNode(x), nil
	case uint16:
		return intNode(x), nil
	case uint32:
		return intNode(x), nil
	case uint64:
		return intNode(x), nil
	case json.Number:
		return numberNode(x)
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			n, err := NormalizeNode(el)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			n, err := NormalizeNode(el)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string object key %v", k)
			}
			n, err := NormalizeNode(el)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported node type %T", v)
}

func intNode[T safecast.Integer](x T) any {
	if n, err := safecast.Conv[int64](x); err == nil {
		return n
	}
	return uint64(x) // only unsigned values overflow int64
}

func floatNode(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFiniteNumber, f)
	}
	if n, err := safecast.Convert[int64](f); err == nil {
		return n, nil
	}
	if n, err := safecast.Convert[uint64](f); err == nil {
		return n, nil
	}
	return f, nil
}

func numberNode(n json.Number) (any, error) {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q: %w", s, err)
	}
	return floatNode(f)
}
