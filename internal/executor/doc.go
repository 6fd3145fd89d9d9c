// Package executor runs rules and, recursively, the rules their sources name.
//
// Execution is plain synchronous recursion dispatched on the rule's shape.
// A dependency is resolved by name against the registry each time it is
// reached, so a rule reachable through two paths runs once per path; nothing
// is memoized within a run. Recursion depth is bounded explicitly by
// WithMaxDepth rather than by the goroutine stack.
//
// What happens when a source names no registered rule depends on the Policy:
// Lenient (the default) skips the dependency silently and still invokes the
// dependent's action, Strict fails the run with ErrUnresolved.
package executor
