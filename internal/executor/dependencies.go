package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/rulemake/internal/registry"
	"github.com/vk/rulemake/internal/rule"
)

// resolve looks source up and executes the rule it names. Whether a missing
// rule is an error is decided by the executor's policy.
func (e *Executor) resolve(ctx context.Context, r *rule.Rule, source rule.Name, chain []rule.Name) error {
	dep, err := e.registry.Lookup(source)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) && e.policy == Lenient {
			return nil
		}
		return fmt.Errorf("rule %q: %w: %w", r.Name, ErrUnresolved, err)
	}
	return e.execute(ctx, dep, chain)
}

// formatChain renders a dependency chain as "a -> b -> c", eliding the middle
// of very long chains.
func formatChain(chain []rule.Name) string {
	const keep = 4
	parts := make([]string, 0, 2*keep+1)
	if len(chain) > 2*keep {
		for _, n := range chain[:keep] {
			parts = append(parts, string(n))
		}
		parts = append(parts, "...")
		for _, n := range chain[len(chain)-keep:] {
			parts = append(parts, string(n))
		}
	} else {
		for _, n := range chain {
			parts = append(parts, string(n))
		}
	}
	return strings.Join(parts, " -> ")
}
