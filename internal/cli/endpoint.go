package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apiprobe-dev/apiprobe/internal/config"
	"github.com/apiprobe-dev/apiprobe/internal/probe"
)

// EndpointCommand represents the endpoint diagnosis command
func EndpointCommand(settings *config.Settings) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Diagnose connectivity and API style of the configured endpoint",
		Long: `Run a tiered connectivity check against the configured endpoint: the models
listing, an OpenAI-style chat completion, an Anthropic-style message, and a
plain OPTIONS request. Reports the first tier that answers and the API style
it implies. An API key improves the diagnosis but is not required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := probe.DiagnoseEndpoint(cmd.Context(), settings)

			if jsonOutput {
				data, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode diagnosis: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				out := cmd.OutOrStdout()
				reachable := "no"
				if status.Reachable {
					reachable = "yes"
				}
				fmt.Fprintf(out, "Endpoint:  %s\n", settings.APIBase)
				fmt.Fprintf(out, "Reachable: %s\n", reachable)
				fmt.Fprintf(out, "Style:     %s\n", status.Style)
				fmt.Fprintf(out, "Tier:      %s\n", status.Tier)
				if status.Reachable {
					fmt.Fprintf(out, "Latency:   %dms\n", status.LatencyMs)
				}
				if status.ModelCount > 0 {
					fmt.Fprintf(out, "Models:    %d\n", status.ModelCount)
				}
				if status.Detail != "" {
					fmt.Fprintf(out, "Detail:    %s\n", status.Detail)
				}
			}

			if !status.Reachable {
				return fmt.Errorf("endpoint %s is not reachable", settings.APIBase)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output the diagnosis as JSON")

	return cmd
}
