// Package rules holds the built-in diff evaluators and their static registration.
//
// Every rule here is additive and informational: it reports widening of the model at
// NOTE severity. Rules that report narrowing (removed bindings, removed shapes) need
// a severity policy per binding kind and are not registered by default.
package rules
