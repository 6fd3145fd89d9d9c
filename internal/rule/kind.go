package rule

import "fmt"

// Kind is the structural classification of a rule.
type Kind int

const (
	KindSingleton Kind = iota
	KindRoot
	KindBranch
	KindFork
	KindKBranch
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "singleton"
	case KindRoot:
		return "root"
	case KindBranch:
		return "branch"
	case KindFork:
		return "fork"
	case KindKBranch:
		return "kbranch"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classify maps a (target count, source count) pair onto a Kind. The boolean
// is false when the pair matches none of the recognized shapes.
func Classify(targets, sources int) (Kind, bool) {
	switch {
	case targets == 0 && sources == 0:
		return KindSingleton, true
	case targets == 1 && sources == 0:
		return KindRoot, true
	case targets == 1 && sources == 1:
		return KindBranch, true
	case targets == 1 && sources > 1:
		return KindFork, true
	case targets >= 2 && targets == sources:
		return KindKBranch, true
	}
	return 0, false
}
