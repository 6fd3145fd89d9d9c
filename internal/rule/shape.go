package rule

// Shape is the sealed set of structural variants a rule can take. The concrete
// types are Singleton, Root, Branch, Fork and KBranch.
type Shape interface {
	Kind() Kind
	targets() []string
	sources() []Name
}

// Singleton is a rule with neither targets nor sources.
type Singleton struct{}

// Root produces one target and depends on nothing.
type Root struct {
	Target string
}

// Branch produces one target from exactly one source.
type Branch struct {
	Target string
	Source Name
}

// Fork produces one target from two or more sources.
type Fork struct {
	Target  string
	Sources []Name
}

// Pair couples the i-th target of a KBranch with its i-th source.
type Pair struct {
	Target string
	Source Name
}

// KBranch produces n targets from n sources, n >= 2, pairwise by index.
type KBranch struct {
	Pairs []Pair
}

func (Singleton) Kind() Kind { return KindSingleton }
func (Root) Kind() Kind { return KindRoot }
func (Branch) Kind() Kind { return KindBranch }
func (Fork) Kind() Kind { return KindFork }
func (KBranch) Kind() Kind { return KindKBranch }

func (Singleton) targets() []string { return nil }
func (s Root) targets() []string { return []string{s.Target} }
func (s Branch) targets() []string { return []string{s.Target} }
func (s Fork) targets() []string { return []string{s.Target} }
func (s KBranch) targets() []string {
	out := make([]string, len(s.Pairs))
	for i, p := range s.Pairs {
		out[i] = p.Target
	}
	return out
}

func (Singleton) sources() []Name { return nil }
func (Root) sources() []Name { return nil }
func (s Branch) sources() []Name { return []Name{s.Source} }
func (s Fork) sources() []Name { return append([]Name(nil), s.Sources...) }
func (s KBranch) sources() []Name {
	out := make([]Name, len(s.Pairs))
	for i, p := range s.Pairs {
		out[i] = p.Source
	}
	return out
}

// newShape builds the variant selected by kind. Callers must have validated
// the arities with Classify.
func newShape(kind Kind, targets []string, sources []Name) Shape {
	switch kind {
	case KindRoot:
		return Root{Target: targets[0]}
	case KindBranch:
		return Branch{Target: targets[0], Source: sources[0]}
	case KindFork:
		return Fork{Target: targets[0], Sources: append([]Name(nil), sources...)}
	case KindKBranch:
		pairs := make([]Pair, len(targets))
		for i := range targets {
			pairs[i] = Pair{Target: targets[i], Source: sources[i]}
		}
		return KBranch{Pairs: pairs}
	}
	return Singleton{}
}
