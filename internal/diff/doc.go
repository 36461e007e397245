// Package diff computes the structural delta between two shape models.
//
// New merges the lexically ordered ID lists of both models in a single pass and
// sorts every ID into exactly one of added, removed, changed or unchanged. A shape
// present in both models is changed when kind, traits (name + value) or body differ.
//
// A Differences value is immutable. Evaluators may query it from many goroutines at
// once; every query returns fresh slices or restartable iterators in ShapeID order.
package diff
