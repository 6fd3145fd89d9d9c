package registry

import (
	"errors"
	"fmt"

	"github.com/vk/rulemake/internal/rule"
)

// ErrNotFound is returned by Lookup when no rule carries the requested name.
var ErrNotFound = errors.New("rule not found")

// Registry holds every rule declared for a single run, in registration order.
type Registry struct {
	rules []*rule.Rule
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Add appends an already constructed rule.
func (r *Registry) Add(rl *rule.Rule) {
	r.rules = append(r.rules, rl)
}

// Declare constructs a rule from its name, targets, sources and action and
// registers it. It is the programmatic counterpart of a rule block in a
// description file.
func (r *Registry) Declare(name rule.Name, targets []string, sources []rule.Name, action rule.Action) (*rule.Rule, error) {
	rl, err := rule.New(name, targets, sources, action)
	if err != nil {
		return nil, err
	}
	r.Add(rl)
	return rl, nil
}

// Lookup returns the first registered rule named name. The error wraps
// ErrNotFound when there is none; callers decide whether that matters.
func (r *Registry) Lookup(name rule.Name) (*rule.Rule, error) {
	for _, rl := range r.rules {
		if rl.Name == name {
			return rl, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Rules returns a copy of the registered rules in registration order.
func (r *Registry) Rules() []*rule.Rule {
	return append([]*rule.Rule(nil), r.rules...)
}

// Len reports the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
