package hcl

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rulemake/internal/ctxlog"
	"github.com/vk/rulemake/internal/rule"
	"github.com/vk/rulemake/internal/shell"
)

// step is one entry of a rule's action, evaluated on every invocation.
type step interface {
	exec(ctx context.Context, a *action, evalCtx *hcl.EvalContext) error
}

// action runs a rule's steps in order. It implements rule.Action.
type action struct {
	name    string
	targets []string
	sources []string
	steps   []step

	scope  *scope
	stdout io.Writer
	runner *shell.Runner
}

var _ rule.Action = (*action)(nil)

// Invoke evaluates and runs every step. When called with a (target, source)
// pair the expressions can also refer to target and source.
func (a *action) Invoke(ctx context.Context, args ...string) error {
	evalCtx := a.scope.evalContext(ctx)
	evalCtx.Variables["rule"] = cty.ObjectVal(map[string]cty.Value{
		"name":    cty.StringVal(a.name),
		"targets": stringListVal(a.targets),
		"sources": stringListVal(a.sources),
	})
	if len(args) == 2 {
		evalCtx = evalCtx.NewChild()
		evalCtx.Variables = map[string]cty.Value{
			"target": cty.StringVal(args[0]),
			"source": cty.StringVal(args[1]),
		}
	}

	for i, st := range a.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.exec(ctx, a, evalCtx); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

type printStep struct {
	message hcl.Expression
}

func (s *printStep) exec(_ context.Context, a *action, evalCtx *hcl.EvalContext) error {
	msg, err := evalString(s.message, evalCtx)
	if err != nil {
		return fmt.Errorf("print: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, msg)
	return err
}

type runStep struct {
	origin    string
	command   hcl.Expression
	argv      hcl.Expression
	dir       hcl.Expression
	env       hcl.Expression
	checkExit hcl.Expression
}

func (s *runStep) exec(ctx context.Context, a *action, evalCtx *hcl.EvalContext) error {
	cmd, err := s.buildCommand(evalCtx, a.scope)
	if err != nil {
		return fmt.Errorf("%s: run: %w", s.origin, err)
	}
	ctxlog.FromContext(ctx).Debug("Running step.", "origin", s.origin, "command", cmd.String())

	if _, err := a.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%s: run: %w", s.origin, err)
	}
	return nil
}

// buildCommand evaluates the step's expressions into a shell.Command.
func (s *runStep) buildCommand(evalCtx *hcl.EvalContext, sc *scope) (shell.Command, error) {
	var (
		cmd shell.Command
		err error
	)

	if isExprDefined(s.command) {
		line, err := evalString(s.command, evalCtx)
		if err != nil {
			return cmd, fmt.Errorf("command: %w", err)
		}
		if cmd.Args, err = shell.Split(line); err != nil {
			return cmd, err
		}
	} else if cmd.Args, err = evalStringList(s.argv, evalCtx); err != nil {
		return cmd, fmt.Errorf("argv: %w", err)
	}

	dir, err := evalString(s.dir, evalCtx)
	if err != nil {
		return cmd, fmt.Errorf("dir: %w", err)
	}
	cmd.Dir = sc.resolve(dir)
	if cmd.Dir == "" {
		cmd.Dir = sc.baseDir
	}

	if cmd.Env, err = evalStringMap(s.env, evalCtx); err != nil {
		return cmd, fmt.Errorf("env: %w", err)
	}
	if cmd.CheckExit, err = evalBool(s.checkExit, evalCtx); err != nil {
		return cmd, fmt.Errorf("check_exit: %w", err)
	}
	return cmd, nil
}
