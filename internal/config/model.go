package config

import "github.com/vk/rulemake/internal/rule"

// DefaultTarget is the target executed when neither the command line nor the
// description file names one.
const DefaultTarget = "build"

// Model is the unified, format-agnostic representation of one description file.
type Model struct {
	// Path is the file the model was loaded from.
	Path string
	// Default is the target to run when none is requested.
	Default string
	// Rules holds every declared rule in declaration order.
	Rules []*RuleDefinition
}

// NewModel returns an empty model with the default target preset.
func NewModel(path string) *Model {
	return &Model{
		Path:    path,
		Default: DefaultTarget,
	}
}

// RuleDefinition is the format-agnostic representation of a declared rule,
// before classification.
type RuleDefinition struct {
	Name    string
	Targets []string
	Sources []string
	Action  rule.Action
	Origin  string
}
