package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/vk/rulemake/internal/config"
	"github.com/vk/rulemake/internal/shell"
)

var ruleSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "targets"},
		{Name: "sources"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "print"},
		{Type: "run"},
	},
}

// printBlock is the decoded form of a print step.
type printBlock struct {
	Message hcl.Expression `hcl:"message"`
}

// runBlock is the decoded form of a run step. Exactly one of Command and Argv
// must be set.
type runBlock struct {
	Command   hcl.Expression `hcl:"command,optional"`
	Argv      hcl.Expression `hcl:"argv,optional"`
	Dir       hcl.Expression `hcl:"dir,optional"`
	Env       hcl.Expression `hcl:"env,optional"`
	CheckExit hcl.Expression `hcl:"check_exit,optional"`
}

// translateRule converts one rule block into the agnostic definition. Steps
// are kept in the order they appear in the block.
func (l *Loader) translateRule(ctx context.Context, block *hcl.Block, sc *scope, runner *shell.Runner) (*config.RuleDefinition, error) {
	def := &config.RuleDefinition{
		Name:   block.Labels[0],
		Origin: origin(block.DefRange),
	}

	content, diags := block.Body.Content(ruleSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: rule %q: %w", def.Origin, def.Name, diags)
	}

	evalCtx := sc.evalContext(ctx)
	var err error
	if attr, ok := content.Attributes["targets"]; ok {
		if def.Targets, err = evalStringList(attr.Expr, evalCtx); err != nil {
			return nil, fmt.Errorf("%s: rule %q: targets: %w", def.Origin, def.Name, err)
		}
	}
	if attr, ok := content.Attributes["sources"]; ok {
		if def.Sources, err = evalStringList(attr.Expr, evalCtx); err != nil {
			return nil, fmt.Errorf("%s: rule %q: sources: %w", def.Origin, def.Name, err)
		}
	}

	act := &action{
		name:    def.Name,
		targets: def.Targets,
		sources: def.Sources,
		scope:   sc,
		stdout:  l.stdout,
		runner:  runner,
	}
	for _, b := range content.Blocks {
		st, err := translateStep(b)
		if err != nil {
			return nil, fmt.Errorf("%s: rule %q: %w", def.Origin, def.Name, err)
		}
		act.steps = append(act.steps, st)
	}
	def.Action = act

	return def, nil
}

func translateStep(block *hcl.Block) (step, error) {
	switch block.Type {
	case "print":
		var pb printBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &pb); diags.HasErrors() {
			return nil, diags
		}
		return &printStep{message: pb.Message}, nil

	case "run":
		var rb runBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &rb); diags.HasErrors() {
			return nil, diags
		}
		hasCommand, hasArgv := isExprDefined(rb.Command), isExprDefined(rb.Argv)
		if hasCommand == hasArgv {
			return nil, fmt.Errorf("%s: run step needs exactly one of command or argv", origin(block.DefRange))
		}
		return &runStep{
			origin:    origin(block.DefRange),
			command:   rb.Command,
			argv:      rb.Argv,
			dir:       rb.Dir,
			env:       rb.Env,
			checkExit: rb.CheckExit,
		}, nil
	}

	return nil, fmt.Errorf("%s: unknown step type %q", origin(block.DefRange), block.Type)
}
