package hcl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/rulemake/internal/config"
	"github.com/vk/rulemake/internal/ctxlog"
	"github.com/vk/rulemake/internal/registry"
	"github.com/vk/rulemake/internal/shell"
)

// Extension is the only description file extension the loader recognizes.
const Extension = ".hcl"

var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "rule", LabelNames: []string{"name"}},
	},
}

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	stdout  io.Writer
	stderr  io.Writer
	environ []string
}

var _ config.Loader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithOutput sets where print steps and command stdout are written.
func WithOutput(w io.Writer) Option {
	return func(l *Loader) { l.stdout = w }
}

// WithStderr sets where command stderr is written.
func WithStderr(w io.Writer) Option {
	return func(l *Loader) { l.stderr = w }
}

// WithEnviron replaces the process environment seen by descriptions and the
// commands they run.
func WithEnviron(env []string) Option {
	return func(l *Loader) { l.environ = env }
}

// NewLoader creates a new HCL description loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		environ: os.Environ(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses the description file at path into the format-agnostic model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	if filepath.Ext(path) != Extension {
		return nil, fmt.Errorf("%w: %q (expected %s)", config.ErrUnsupportedExtension, path, Extension)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", config.ErrNotFound, path)
		}
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	sc := newScope(l.environ, filepath.Dir(path))
	model := config.NewModel(path)

	if attr, ok := content.Attributes["default"]; ok {
		name, err := evalString(attr.Expr, sc.evalContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("%s: default: %w", origin(attr.Range), err)
		}
		if name != "" {
			model.Default = name
		}
	}

	runner := shell.NewRunner(l.stdout, l.stderr, l.environ)
	for _, block := range content.Blocks {
		def, err := l.translateRule(ctx, block, sc, runner)
		if err != nil {
			return nil, err
		}
		model.Rules = append(model.Rules, def)
	}

	logger.Debug("HCL loading complete.", "rules", len(model.Rules), "default", model.Default)
	return model, nil
}

// LoadRegistry loads the description file at path and classifies its rules.
// It returns the populated registry and the default target name.
func (l *Loader) LoadRegistry(ctx context.Context, path string) (*registry.Registry, string, error) {
	model, err := l.Load(ctx, path)
	if err != nil {
		return nil, "", err
	}
	reg, err := registry.FromModel(ctx, model)
	if err != nil {
		return nil, "", err
	}
	return reg, model.Default, nil
}

// origin renders a source range as "file:line".
func origin(rng hcl.Range) string {
	return fmt.Sprintf("%s:%d", rng.Filename, rng.Start.Line)
}
