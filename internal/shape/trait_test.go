package shape

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestTraitNameParts(t *testing.T) {
	if got := TraitNamespace("ns.foo#baz", PreludeNamespace); got != "ns.foo" {
		t.Fatalf("TraitNamespace = %q, want %q", got, "ns.foo")
	}
	if got := RelativeTraitName("ns.foo#baz"); got != "baz" {
		t.Fatalf("RelativeTraitName = %q, want %q", got, "baz")
	}
	if got := TraitNamespace("baz", PreludeNamespace); got != PreludeNamespace {
		t.Fatalf("TraitNamespace(relative) = %q, want %q", got, PreludeNamespace)
	}
	if got := RelativeTraitName("baz"); got != "baz" {
		t.Fatalf("RelativeTraitName(relative) = %q, want %q", got, "baz")
	}
	if got := MakeAbsoluteTraitName("baz", PreludeNamespace); got != PreludeNamespace+"#baz" {
		t.Fatalf("MakeAbsoluteTraitName = %q", got)
	}
	if got := MakeAbsoluteTraitName("ns.foo#baz", "other"); got != "ns.foo#baz" {
		t.Fatalf("absolute names must be unchanged, got %q", got)
	}
	if got := MakeAbsoluteTraitName("baz", "custom.ns"); TraitNamespace(got, PreludeNamespace) != "custom.ns" {
		t.Fatalf("custom default namespace lost: %q", got)
	}
	if got := IdiomaticTraitName("smithy.api#required"); got != "required" {
		t.Fatalf("IdiomaticTraitName = %q, want %q", got, "required")
	}
	if got := IdiomaticTraitName("ns.foo#required"); got != "ns.foo#required" {
		t.Fatalf("IdiomaticTraitName must keep foreign namespaces, got %q", got)
	}
}

func TestTraitEqualityIsStructural(t *testing.T) {
	a, err := NewTrait("smithy.api#length", map[string]any{"min": 1, "max": int64(5)}, SourceLocation{Filename: "a.json"})
	if err != nil {
		t.Fatalf("NewTrait: %v", err)
	}
	b, err := NewTrait("smithy.api#length", map[any]any{"min": json.Number("1"), "max": 5.0}, SourceLocation{Filename: "b.yaml", Line: 3})
	if err != nil {
		t.Fatalf("NewTrait: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("traits with equal content must be equal: %#v vs %#v", a.Value(), b.Value())
	}
	c, _ := NewTrait("smithy.api#length", map[string]any{"min": 2}, SourceLocation{})
	if a.Equal(c) {
		t.Fatal("different values must not be equal")
	}
}

func TestNewTraitRejectsRelativeNames(t *testing.T) {
	if _, err := NewTrait("required", nil, SourceLocation{}); !errors.Is(err, ErrInvalidTrait) {
		t.Fatalf("error = %v, want ErrInvalidTrait", err)
	}
	if _, err := NewTrait("smithy.api#x", struct{}{}, SourceLocation{}); !errors.Is(err, ErrInvalidTrait) {
		t.Fatalf("error = %v, want ErrInvalidTrait", err)
	}
}

func TestNormalizeNodeKeepsIntegerPrecision(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"int", 7, int64(7)},
		{"integral float", 1.0, int64(1)},
		{"json integral", json.Number("1.0"), int64(1)},
		{"above 2^53", json.Number("9007199254740993"), int64(9007199254740993)},
		{"above MaxInt64", uint64(math.MaxUint64), uint64(math.MaxUint64)},
		{"json above MaxInt64", json.Number("18446744073709551615"), uint64(math.MaxUint64)},
		{"fraction", json.Number("1.5"), 1.5},
		{"float32", float32(0.5), 0.5},
	}
	for _, tc := range cases {
		got, err := NormalizeNode(tc.in)
		if err != nil {
			t.Fatalf("%s: NormalizeNode(%v) error: %v", tc.name, tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s: NormalizeNode(%v) = %#v, want %#v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestTraitEqualityDistinguishesLargeIntegers(t *testing.T) {
	a, err := NewTrait("ns#limit", json.Number("9007199254740993"), SourceLocation{})
	if err != nil {
		t.Fatalf("NewTrait: %v", err)
	}
	b, err := NewTrait("ns#limit", int64(9007199254740992), SourceLocation{})
	if err != nil {
		t.Fatalf("NewTrait: %v", err)
	}
	if a.Equal(b) {
		t.Fatal("integers one apart above 2^53 must not be equal")
	}
}

func TestNormalizeNodeRejectsNonFinite(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), []any{math.Inf(-1)}} {
		if _, err := NormalizeNode(v); !errors.Is(err, ErrNonFiniteNumber) {
			t.Fatalf("NormalizeNode(%v) error = %v, want ErrNonFiniteNumber", v, err)
		}
	}
	if _, err := NewTrait("ns#x", math.NaN(), SourceLocation{}); !errors.Is(err, ErrInvalidTrait) {
		t.Fatalf("NewTrait(NaN) error = %v, want ErrInvalidTrait", err)
	}
}
