package rule

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidShape is matched by every classification failure.
var ErrInvalidShape = errors.New("invalid rule shape")

// ShapeError reports a rule whose target/source arities match no shape.
type ShapeError struct {
	Name    Name
	Targets int
	Sources int
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("rule %q: %s: %d target(s) and %d source(s)", e.Name, ErrInvalidShape, e.Targets, e.Sources)
}

// Is lets errors.Is match ErrInvalidShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}

// Name identifies a rule. Sources refer to other rules by Name.
type Name string

// Names converts plain strings into rule names.
func Names(ss ...string) []Name {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Name, len(ss))
	for i, s := range ss {
		out[i] = Name(s)
	}
	return out
}

// Action is the behavior attached to a rule. It receives no arguments, or
// exactly (target, source) when invoked on behalf of a KBranch pair.
type Action interface {
	Invoke(ctx context.Context, args ...string) error
}

// ActionFunc adapts an ordinary function to the Action interface.
type ActionFunc func(ctx context.Context, args ...string) error

// Invoke calls f(ctx, args...).
func (f ActionFunc) Invoke(ctx context.Context, args ...string) error {
	return f(ctx, args...)
}

// Noop is an Action that does nothing.
var Noop Action = ActionFunc(func(context.Context, ...string) error { return nil })

// Rule is one named buildable action together with its classified shape.
type Rule struct {
	Name   Name
	Shape  Shape
	Action Action
	// Origin is where the rule was declared, e.g. "build.hcl:12". Optional.
	Origin string
}

// New classifies the given arities and returns the rule. A nil action is
// replaced by Noop.
func New(name Name, targets []string, sources []Name, action Action) (*Rule, error) {
	kind, ok := Classify(len(targets), len(sources))
	if !ok {
		return nil, &ShapeError{Name: name, Targets: len(targets), Sources: len(sources)}
	}
	if action == nil {
		action = Noop
	}
	return &Rule{
		Name:   name,
		Shape:  newShape(kind, targets, sources),
		Action: action,
	}, nil
}

// Kind returns the rule's structural classification.
func (r *Rule) Kind() Kind {
	return r.Shape.Kind()
}

// Targets returns the rule's declared targets in order.
func (r *Rule) Targets() []string {
	return r.Shape.targets()
}

// Sources returns the rule's declared sources in order.
func (r *Rule) Sources() []Name {
	return r.Shape.sources()
}

// String provides a simple representation for debugging.
func (r *Rule) String() string {
	return fmt.Sprintf("Rule(%s, %s, Targets: %v, Sources: %v)", r.Name, r.Kind(), r.Targets(), r.Sources())
}
