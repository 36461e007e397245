package shape

import "fmt"

// Kind is the closed set of shape kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	// simple
	KindBlob
	KindBoolean
	KindString
	KindByte
	KindShort
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindBigInteger
	KindBigDecimal
	KindTimestamp
	KindDocument
	// aggregate
	KindList
	KindSet
	KindMap
	KindStructure
	KindUnion
	KindMember
	// entity
	KindService
	KindResource
	KindOperation
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindBlob:       "blob",
	KindBoolean:    "boolean",
	KindString:     "string",
	KindByte:       "byte",
	KindShort:      "short",
	KindInteger:    "integer",
	KindLong:       "long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindBigInteger: "bigInteger",
	KindBigDecimal: "bigDecimal",
	KindTimestamp:  "timestamp",
	KindDocument:   "document",
	KindList:       "list",
	KindSet:        "set",
	KindMap:        "map",
	KindStructure:  "structure",
	KindUnion:      "union",
	KindMember:     "member",
	KindService:    "service",
	KindResource:   "resource",
	KindOperation:  "operation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps the serialized kind name ("service", "bigInteger", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if k != int(KindInvalid) && name == s {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown shape type %q", s)
}

// Category groups kinds that share the same body variant.
type Category uint8

const (
	CategoryInvalid Category = iota
	CategorySimple
	CategoryAggregate
	CategoryMember
	CategoryEntity
	CategoryOperation
)

func (c Category) String() string {
	switch c {
	case CategorySimple:
		return "simple"
	case CategoryAggregate:
		return "aggregate"
	case CategoryMember:
		return "member"
	case CategoryEntity:
		return "entity"
	case CategoryOperation:
		return "operation"
	}
	return "invalid"
}

// Category returns the body category of the kind.
func (k Kind) Category() Category {
	switch k {
	case KindBlob, KindBoolean, KindString, KindByte, KindShort, KindInteger, KindLong,
		KindFloat, KindDouble, KindBigInteger, KindBigDecimal, KindTimestamp, KindDocument:
		return CategorySimple
	case KindList, KindSet, KindMap, KindStructure, KindUnion:
		return CategoryAggregate
	case KindMember:
		return CategoryMember
	case KindService, KindResource:
		return CategoryEntity
	case KindOperation:
		return CategoryOperation
	case KindInvalid:
		return CategoryInvalid
	}
	return CategoryInvalid
}

// Selector picks shapes by kind when querying a diff.
type Selector interface {
	Matches(k Kind) bool
}

// Matches reports whether k is exactly this kind.
func (k Kind) Matches(other Kind) bool { return k == other }

// Matches reports whether k belongs to the category.
func (c Category) Matches(k Kind) bool { return k.Category() == c }

type anyKind struct{}

func (anyKind) Matches(k Kind) bool { return k != KindInvalid }

// AnyKind matches every valid kind.
var AnyKind Selector = anyKind{}
