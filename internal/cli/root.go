package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vk/rulemake/internal/app"
	"github.com/vk/rulemake/internal/executor"
	"github.com/vk/rulemake/internal/hcl"
	"github.com/vk/rulemake/internal/log"
)

// RootArgs holds the values bound to the root command's flags.
type RootArgs struct {
	BuildFile  string
	ConfigFile string
	LogFormat  string
	MaxDepth   int
	Debug      bool
	Strict     bool
	Watch      bool
}

// NewRootArgs returns an empty RootArgs ready for AddFlags.
func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

// AddFlags registers the root flags on cmd, bound to ra.
func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&ra.BuildFile, "build-file", "b", app.DefaultBuildFile, "Description file to load.")
	flags.BoolVarP(&ra.Debug, "debug-mode", "d", false, "Trace the loaded file, resolved targets, and each rule executed.")
	flags.BoolVar(&ra.Strict, "strict", false, "Fail on unresolved sources and unknown targets.")
	flags.IntVar(&ra.MaxDepth, "max-depth", executor.DefaultMaxDepth, "Maximum dependency chain length.")
	flags.BoolVar(&ra.Watch, "watch", false, "Rebuild whenever the description file changes.")
	flags.StringVar(&ra.ConfigFile, "config", app.DefaultConfigFile, "Optional TOML config file.")
	flags.StringVar(&ra.LogFormat, "log-format", string(log.FormatText), fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	err := cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

// NewRootCmd builds the rulemake command with its flags and completions.
func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName + " [flags] [target...]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		ValidArgsFunction: targetCompletion(args),
		RunE:              run(args),
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	args.AddFlags(cmd)

	return cmd
}

func run(ra *RootArgs) func(cmd *cobra.Command, targets []string) error {
	return func(cmd *cobra.Command, targets []string) error {
		cfg, err := loadConfig(cmd, ra)
		if err != nil {
			return err
		}
		slog.Debug("CLI parser finished successfully.", "build_file", cfg.BuildFile, "targets", targets)

		a, err := app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		if err != nil {
			return &usageError{err: err}
		}
		return a.Run(cmd.Context(), targets)
	}
}

// targetCompletion offers the rule names declared in the description file.
func targetCompletion(ra *RootArgs) cobra.CompletionFunc {
	return func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		reg, _, err := hcl.NewLoader().LoadRegistry(cmd.Context(), ra.BuildFile)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var names []string
		seen := map[string]bool{}
		for _, r := range reg.Rules() {
			if !seen[string(r.Name)] {
				seen[string(r.Name)] = true
				names = append(names, string(r.Name))
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
