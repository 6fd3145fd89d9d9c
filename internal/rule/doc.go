// Package rule defines the rule entity of the build graph and the classifier
// that maps a rule's declared arities onto one of five structural shapes.
//
// # Shapes
//
// Every rule declares an ordered list of targets (the outputs it claims to
// produce) and an ordered list of sources (the names of other rules it depends
// on). The pair of lengths selects the shape:
//
//	targets  sources  shape
//	0        0        Singleton
//	1        0        Root
//	1        1        Branch
//	1        n > 1    Fork
//	n >= 2   n        KBranch
//
// Any other combination is rejected by [New] with a [*ShapeError].
//
// A [Shape] is a sealed tagged variant. Each concrete shape carries exactly the
// fields that are meaningful for it; a KBranch, for example, is a list of
// target/source [Pair] values, so unequal lengths cannot be represented once a
// rule has been constructed.
//
// # Actions
//
// A rule's [Action] is invoked with no arguments for Singleton, Root, Branch
// and Fork rules, and once per pair with (target, source) for KBranch rules.
package rule
