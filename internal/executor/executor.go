package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/rulemake/internal/ctxlog"
	"github.com/vk/rulemake/internal/registry"
	"github.com/vk/rulemake/internal/rule"
)

// DefaultMaxDepth bounds the length of a dependency chain.
const DefaultMaxDepth = 256

var (
	// ErrUnresolved is returned in Strict mode when a source names no rule.
	ErrUnresolved = errors.New("unresolved dependency")

	// ErrDepthExceeded is returned when a dependency chain grows past the
	// configured maximum depth, which is what a self-referencing rule does.
	ErrDepthExceeded = errors.New("maximum dependency depth exceeded")
)

// Policy decides how unresolved dependencies are handled.
type Policy int

const (
	// Lenient skips unresolved dependencies without reporting them.
	Lenient Policy = iota
	// Strict fails the run on the first unresolved dependency.
	Strict
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// Option configures an Executor.
type Option func(*Executor)

// WithPolicy sets how unresolved dependencies are handled.
func WithPolicy(p Policy) Option {
	return func(e *Executor) {
		e.policy = p
	}
}

// WithMaxDepth sets the longest dependency chain Execute will follow.
// Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// Executor resolves and runs rules against a registry. It only reads from
// the registry.
type Executor struct {
	registry *registry.Registry
	policy   Policy
	maxDepth int
}

// New creates an Executor over reg.
func New(reg *registry.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry: reg,
		policy:   Lenient,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs r, first running whichever of its sources resolve to
// registered rules.
func (e *Executor) Execute(ctx context.Context, r *rule.Rule) error {
	return e.execute(ctx, r, nil)
}

func (e *Executor) execute(ctx context.Context, r *rule.Rule, chain []rule.Name) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chain = append(chain, r.Name)
	if len(chain) > e.maxDepth {
		return fmt.Errorf("%w (%d): %s", ErrDepthExceeded, e.maxDepth, formatChain(chain))
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executing rule.", "rule", r.Name, "kind", r.Kind().String(), "depth", len(chain))

	switch s := r.Shape.(type) {
	case rule.Singleton, rule.Root:
		return e.invoke(ctx, r)

	case rule.Branch:
		if err := e.resolve(ctx, r, s.Source, chain); err != nil {
			return err
		}
		return e.invoke(ctx, r)

	case rule.Fork:
		for _, source := range s.Sources {
			if err := e.resolve(ctx, r, source, chain); err != nil {
				return err
			}
		}
		return e.invoke(ctx, r)

	case rule.KBranch:
		for _, p := range s.Pairs {
			if err := e.resolve(ctx, r, p.Source, chain); err != nil {
				return err
			}
		}
		for _, p := range s.Pairs {
			if err := e.invoke(ctx, r, p.Target, string(p.Source)); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("rule %q: unknown shape %T", r.Name, r.Shape)
}

// invoke calls the rule's action with args.
func (e *Executor) invoke(ctx context.Context, r *rule.Rule, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Action.Invoke(ctx, args...); err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	return nil
}
