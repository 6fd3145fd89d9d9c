package registry

import (
	"context"
	"fmt"

	"github.com/vk/rulemake/internal/config"
	"github.com/vk/rulemake/internal/ctxlog"
	"github.com/vk/rulemake/internal/rule"
)

// FromModel classifies every rule definition in the model and returns a
// populated Registry. The first classification failure aborts loading.
func FromModel(ctx context.Context, model *config.Model) (*Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Populating registry from description model.", "path", model.Path, "definitions", len(model.Rules))

	reg := New()
	for _, def := range model.Rules {
		rl, err := rule.New(rule.Name(def.Name), def.Targets, rule.Names(def.Sources...), def.Action)
		if err != nil {
			if def.Origin != "" {
				return nil, fmt.Errorf("%s: %w", def.Origin, err)
			}
			return nil, err
		}
		rl.Origin = def.Origin
		logger.Debug("Registering rule.", "name", rl.Name, "kind", rl.Kind().String(), "origin", rl.Origin)
		reg.Add(rl)
	}

	logger.Debug("Registry populated.", "rules", reg.Len())
	return reg, nil
}
