package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/apiprobe-dev/apiprobe/internal/client"
	"github.com/apiprobe-dev/apiprobe/internal/config"
)

// ModelsCommand represents the list models command
func ModelsCommand(settings *config.Settings) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models available at the configured endpoint",
		Long: `Fetch and display the models exposed by the configured endpoint.
Shows the model ID, owner, and creation date when the provider reports them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}

			var lister client.ModelLister = client.NewOpenAIClient(settings)
			models, err := lister.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

			if jsonOutput {
				data, err := json.MarshalIndent(models, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode models: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tOWNED BY\tCREATED")
			fmt.Fprintln(w, "-----\t--------\t-------")

			for _, m := range models {
				created := ""
				if m.Created > 0 {
					created = time.Unix(m.Created, 0).UTC().Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.OwnedBy, created)
			}

			w.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output models as JSON")

	return cmd
}
