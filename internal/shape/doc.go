// Package shape defines the immutable shape graph consumed by the diff engine.
//
// # Data model
//
//   - ShapeID – absolute identifier `namespace#name` or `namespace#name$member`.
//   - Kind – closed enumeration of shape kinds; Category groups kinds that share a body.
//   - Body – sealed variant payload (EntityBody, OperationBody, MemberBody, AggregateBody).
//     Simple (primitive) kinds carry no body.
//   - Trait – absolute trait name plus a normalized structured value.
//   - Model – immutable ShapeID -> Shape mapping with lexically ordered iteration.
//
// Everything in this package is read-only after construction. Constructors validate
// input and return errors; nothing here mutates a Shape or a Model once built, so both
// may be shared freely between goroutines.
//
// Trait names are plain strings. TraitNamespace, RelativeTraitName and
// MakeAbsoluteTraitName derive the parts of a name against an explicit default
// namespace (PreludeNamespace for the built-in traits).
package shape
