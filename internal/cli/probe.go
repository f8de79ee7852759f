package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apiprobe-dev/apiprobe/internal/client"
	"github.com/apiprobe-dev/apiprobe/internal/config"
	"github.com/apiprobe-dev/apiprobe/internal/probe"
	"github.com/apiprobe-dev/apiprobe/internal/report"
)

type probeFlags struct {
	all        bool
	selectExpr string
	jsonOutput bool
	markdown   bool
	outputFile string
}

// ProbeCommand represents the capability probe command
func ProbeCommand(settings *config.Settings) *cobra.Command {
	flags := &probeFlags{}

	cmd := &cobra.Command{
		Use:   "probe [model|pattern]",
		Short: "Probe models for OpenAI API feature support",
		Long: `Probe one or more models for chat completion, function calling, JSON mode,
vision, and embeddings support. The argument is a model ID or a glob pattern
matched against the model list; --all probes every listed model and --select
filters the list with a boolean expression over ID, OwnedBy, and Created.`,
		Example: `  apiprobe probe gpt-4o
  apiprobe probe "gpt-4*"
  apiprobe probe --all --json
  apiprobe probe --select 'OwnedBy == "openai"' --markdown --output report.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}

			format, err := resolveFormat(flags.jsonOutput, flags.markdown)
			if err != nil {
				return err
			}

			target := ""
			if len(args) > 0 {
				target = strings.TrimSpace(args[0])
			}
			if target == "" && !flags.all && flags.selectExpr == "" {
				return fmt.Errorf("nothing to probe: pass a model ID, a glob pattern, --all, or --select")
			}
			if target != "" && flags.all {
				return fmt.Errorf("--all cannot be combined with a model argument")
			}

			c := client.NewOpenAIClient(settings)
			prober := probe.New(c, settings.GetVersion())
			ctx := cmd.Context()

			// An exact model ID is probed directly so endpoints without a
			// models listing still work.
			if target != "" && !probe.IsPattern(target) && flags.selectExpr == "" {
				rep := report.New(c.APIBase(), settings.GetVersion())
				rep.Add(prober.ProbeModel(ctx, target))
				return writeReport(cmd, rep, format, flags.outputFile)
			}

			models, err := prober.ListModels(ctx)
			if err != nil {
				if client.IsModelsEndpointNotSupported(err) {
					return fmt.Errorf("%w; probe a model by exact ID instead", err)
				}
				return fmt.Errorf("failed to list models: %w", err)
			}

			if flags.selectExpr != "" {
				program, err := probe.CompileSelector(flags.selectExpr)
				if err != nil {
					return err
				}
				models, err = probe.FilterByExpr(models, program)
				if err != nil {
					return err
				}
			}
			if target != "" {
				models = probe.MatchPattern(models, target)
			}
			if len(models) == 0 {
				return fmt.Errorf("no models matched the given selection")
			}

			rep := prober.ProbeModels(ctx, probe.IDs(models))
			return writeReport(cmd, rep, format, flags.outputFile)
		},
	}

	cmd.Flags().BoolVar(&flags.all, "all", false, "Probe every model the endpoint lists")
	cmd.Flags().StringVar(&flags.selectExpr, "select", "", "Keep models matching a boolean expression, e.g. 'OwnedBy == \"openai\"'")
	cmd.Flags().BoolVarP(&flags.jsonOutput, "json", "j", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "Output the report as markdown")
	cmd.Flags().StringVarP(&flags.outputFile, "output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}
