// Package testkit holds model fixtures and invariant checks shared by tests.
package testkit

import (
	"fmt"

	"shapediff/internal/shape"
)

// ID parses an absolute shape ID and panics on error.
func ID(s string) shape.ShapeID { return shape.MustParseShapeID(s) }

// IDs parses several shape IDs.
func IDs(ss ...string) []shape.ShapeID {
	out := make([]shape.ShapeID, len(ss))
	for i, s := range ss {
		out[i] = ID(s)
	}
	return out
}

// Trait builds a trait, resolving relative names against the prelude.
func Trait(name string, value any) shape.Trait {
	t, err := shape.NewTrait(shape.MakeAbsoluteTraitName(name, shape.PreludeNamespace), value, shape.SourceLocation{})
	if err != nil {
		panic(err)
	}
	return t
}

// Service builds a service with the given operation and resource bindings.
func Service(id string, operations, resources []string, traits ...shape.Trait) *shape.Shape {
	return entity(id, shape.KindService, operations, resources, traits)
}

// Resource builds a resource with the given operation and resource bindings.
func Resource(id string, operations, resources []string, traits ...shape.Trait) *shape.Shape {
	return entity(id, shape.KindResource, operations, resources, traits)
}

func entity(id string, kind shape.Kind, operations, resources []string, traits []shape.Trait) *shape.Shape {
	body := shape.EntityBody{
		Operations: shape.NewIDSet(IDs(operations...)...),
		Resources:  shape.NewIDSet(IDs(resources...)...),
	}
	return must(shape.New(ID(id), kind, body, shape.SourceLocation{}, traits...))
}

// Operation builds an operation without input, output or errors.
func Operation(id string, traits ...shape.Trait) *shape.Shape {
	return must(shape.New(ID(id), shape.KindOperation, shape.OperationBody{}, shape.SourceLocation{}, traits...))
}

// Simple builds a shape of a simple kind.
func Simple(id string, kind shape.Kind, traits ...shape.Trait) *shape.Shape {
	return must(shape.New(ID(id), kind, nil, shape.SourceLocation{}, traits...))
}

// Structure builds a structure plus its member shapes. members maps member name
// to target ID.
func Structure(id string, members map[string]string, traits ...shape.Trait) []*shape.Shape {
	container := ID(id)
	out := make([]*shape.Shape, 0, len(members)+1)
	memberIDs := make([]shape.ShapeID, 0, len(members))
	for name, target := range members {
		mid := must(container.WithMember(name))
		memberIDs = append(memberIDs, mid)
		out = append(out, must(shape.New(mid, shape.KindMember, shape.MemberBody{Target: ID(target)}, shape.SourceLocation{})))
	}
	body := shape.AggregateBody{Members: shape.NewIDSet(memberIDs...)}
	return append(out, must(shape.New(container, shape.KindStructure, body, shape.SourceLocation{}, traits...)))
}

// Model assembles shapes into a model and panics on error.
func Model(shapes ...*shape.Shape) *shape.Model {
	return must(shape.NewModel(shapes...))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("testkit: %v", err))
	}
	return v
}
