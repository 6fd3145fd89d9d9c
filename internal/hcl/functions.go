package hcl

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/rulemake/internal/checksum"
)

// scope holds what every expression in one description file can see.
type scope struct {
	env     cty.Value
	baseDir string
}

func newScope(environ []string, baseDir string) *scope {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}

	env := cty.MapValEmpty(cty.String)
	if len(vars) > 0 {
		env = cty.MapVal(vars)
	}
	return &scope{env: env, baseDir: baseDir}
}

// evalContext returns the root evaluation context. Functions that touch the
// filesystem log through ctx.
func (s *scope) evalContext(ctx context.Context) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": s.env,
		},
		Functions: s.functions(ctx),
	}
}

// resolve makes a relative path relative to the description file.
func (s *scope) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

func (s *scope) functions(ctx context.Context) map[string]function.Function {
	return map[string]function.Function{
		"upper":     stdlib.UpperFunc,
		"lower":     stdlib.LowerFunc,
		"join":      stdlib.JoinFunc,
		"split":     stdlib.SplitFunc,
		"format":    stdlib.FormatFunc,
		"concat":    stdlib.ConcatFunc,
		"length":    stdlib.LengthFunc,
		"replace":   stdlib.ReplaceFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"checksum":  s.checksumFunc(ctx),
	}
}

// checksumFunc returns checksum(path), the hex SHA-256 digest of a file.
func (s *scope) checksumFunc(ctx context.Context) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "path", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			d, err := checksum.File(ctx, s.resolve(args[0].AsString()))
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			return cty.StringVal(d.String()), nil
		},
	})
}
