// Package diag defines the diagnostic event model shared by every evaluator.
//
// # Purpose
//
//   - Provide deterministic, serialisable records (Event) for findings produced by
//     diff evaluators.
//   - Define the ordered Severity scale and the breaking predicate callers use for
//     pass/fail decisions.
//   - Offer a Bag that sorts, filters and deduplicates events without knowing who
//     produced them.
//
// # Scope
//
// Package diag performs no IO and no rendering. Renderers live in internal/diagfmt;
// the runner in internal/runner fills bags from evaluator output.
//
// # Severity
//
// Severity is totally ordered: NOTE < WARNING < DANGER < ERROR. DANGER and ERROR are
// breaking under DefaultPolicy. Always decide pass/fail through Policy.IsBreaking (or
// the IsBreaking shortcut) and never by comparing severities directly, so the
// threshold can move without touching evaluators.
//
// # Ordering
//
// Bag.Sort orders by shape ID, then severity (descending), then event ID, then
// message. Two runs over the same input therefore render byte-identical output.
package diag
