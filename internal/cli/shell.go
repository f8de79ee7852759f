package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/apiprobe-dev/apiprobe/internal/client"
	"github.com/apiprobe-dev/apiprobe/internal/config"
	"github.com/apiprobe-dev/apiprobe/internal/probe"
	"github.com/apiprobe-dev/apiprobe/internal/report"
	"github.com/apiprobe-dev/apiprobe/internal/tui"
)

// ShellCommand represents the interactive probe console command
func ShellCommand(settings *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Enter the interactive probe console",
		Long: `Enter an interactive menu session for exploring the configured endpoint.
List models, probe single models, probe by pattern or multi-selection, and
switch provider profiles without restarting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}
			return runInteractiveMode(cmd.Context(), settings)
		},
	}

	return cmd
}

// session carries the state shared by the shell menu handlers.
type session struct {
	settings *config.Settings
	client   *client.OpenAIClient
	prober   *probe.Prober
	models   []client.ModelInfo
}

// reconnect rebuilds the client and refreshes the model list. Endpoints
// without a models listing keep the session usable for probes by exact ID.
func (s *session) reconnect(ctx context.Context) error {
	s.client = client.NewOpenAIClient(s.settings)
	s.prober = probe.New(s.client, s.settings.GetVersion())
	s.models = nil

	fmt.Println("Fetching available models...")
	models, err := s.prober.ListModels(ctx)
	if err != nil {
		if client.IsModelsEndpointNotSupported(err) {
			fmt.Printf("⚠️  %v\n", err)
			fmt.Println("Model listing is unavailable; probe models by exact ID.")
			return nil
		}
		return fmt.Errorf("failed to list models: %w", err)
	}

	s.models = models
	fmt.Printf("✅ Found %d models.\n", len(models))
	return nil
}

// runInteractiveMode starts the interactive console
func runInteractiveMode(ctx context.Context, settings *config.Settings) error {
	sess := &session{settings: settings}
	if err := sess.reconnect(ctx); err != nil {
		return err
	}

	// Pick up profile edits on disk while the menu is open.
	if store, err := settings.Profiles(); err == nil {
		if watcher, werr := config.NewProfilesWatcher(store); werr == nil {
			if werr := watcher.Start(); werr == nil {
				defer watcher.Stop()
			}
		}
	} else {
		logrus.Debugf("profiles unavailable: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		showMainMenu(settings)
		fmt.Print("Select an option (1-7): ")

		input, err := reader.ReadString('\n')
		if err != nil {
			if err.Error() == "EOF" {
				fmt.Println("\n👋 Goodbye!")
				return nil
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		choice := strings.TrimSpace(input)

		switch choice {
		case "1":
			handleListModels(sess)
		case "2":
			handleProbeOne(ctx, sess)
		case "3":
			handleProbePattern(ctx, sess)
		case "4":
			handleProbeSelected(ctx, sess)
		case "5":
			handleProbeAll(ctx, sess)
		case "6":
			handleSwitchProfile(ctx, sess)
		case "7":
			fmt.Println("👋 Goodbye!")
			return nil
		default:
			fmt.Println("❌ Invalid choice. Please select 1-7.")
		}

		fmt.Println("\nPress Enter to continue...")
		_, _ = reader.ReadString('\n')
	}
}

// showMainMenu displays the main menu
func showMainMenu(settings *config.Settings) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("🎯 apiprobe - Interactive Probe Console")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Endpoint: %s\n", settings.APIBase)
	if settings.ProfileName != "" {
		fmt.Printf("Profile:  %s\n", settings.ProfileName)
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println("1. 📋 List Available Models")
	fmt.Println("2. 🎯 Probe a Specific Model")
	fmt.Println("3. 🔍 Probe Models Matching a Pattern")
	fmt.Println("4. ✅ Probe Selected Models")
	fmt.Println("5. 🚀 Probe All Models")
	fmt.Println("6. 🔑 Switch Provider Profile")
	fmt.Println("7. 🚪 Exit")
	fmt.Println(strings.Repeat("=", 60))
}

// handleListModels prints the fetched model IDs
func handleListModels(sess *session) {
	if len(sess.models) == 0 {
		fmt.Println("⚠️  No models available.")
		return
	}

	ids := probe.IDs(sess.models)
	sort.Strings(ids)

	fmt.Printf("\n📋 Available models (%d):\n", len(ids))
	for _, id := range ids {
		fmt.Printf("  • %s\n", id)
	}
}

// handleProbeOne probes a single model chosen from the list, falling back to
// manual entry when the endpoint has no models listing.
func handleProbeOne(ctx context.Context, sess *session) {
	var model string

	if len(sess.models) == 0 {
		result, err := tui.Input("Enter the model ID to probe", tui.InputOptions{
			Placeholder: "gpt-4o",
			Required:    true,
		})
		if err != nil || !result.IsConfirm() {
			return
		}
		model = strings.TrimSpace(result.Value)
	} else {
		items := make([]tui.SelectItem[string], 0, len(sess.models))
		for _, m := range sess.models {
			items = append(items, tui.SelectItem[string]{
				Title:       m.ID,
				Description: m.OwnedBy,
				Value:       m.ID,
			})
		}

		result, err := tui.Select("Select a model to probe", items)
		if err != nil || !result.IsConfirm() {
			return
		}
		model = result.Value
	}

	sess.runProbe(ctx, []string{model})
}

// handleProbePattern probes every model matching an entered pattern
func handleProbePattern(ctx context.Context, sess *session) {
	if len(sess.models) == 0 {
		fmt.Println("⚠️  No models available.")
		return
	}

	result, err := tui.Input("Enter a pattern to match model IDs", tui.InputOptions{
		Placeholder: "gpt-4*",
		Required:    true,
	})
	if err != nil || !result.IsConfirm() {
		return
	}

	matches := probe.MatchPattern(sess.models, strings.TrimSpace(result.Value))
	if len(matches) == 0 {
		fmt.Println("❌ No models found matching that pattern.")
		return
	}

	fmt.Printf("\nFound %d matching models:\n", len(matches))
	for _, m := range matches {
		fmt.Printf("  • %s\n", m.ID)
	}
	fmt.Println()

	confirm, err := tui.Confirm("Probe these models?", tui.ConfirmOptions{DefaultYes: true})
	if err != nil || !confirm.IsConfirm() || !confirm.Value {
		return
	}

	sess.runProbe(ctx, probe.IDs(matches))
}

// handleProbeSelected probes models picked from a multi-select list
func handleProbeSelected(ctx context.Context, sess *session) {
	if len(sess.models) == 0 {
		fmt.Println("⚠️  No models available.")
		return
	}

	items := make([]tui.MultiSelectItem[string], 0, len(sess.models))
	for _, m := range sess.models {
		items = append(items, tui.MultiSelectItem[string]{
			Title:       m.ID,
			Description: m.OwnedBy,
			Value:       m.ID,
		})
	}

	result, err := tui.MultiSelect("Select models to probe", items)
	if err != nil || !result.IsConfirm() {
		return
	}
	if len(result.Value) == 0 {
		fmt.Println("⚠️  No models selected.")
		return
	}

	sess.runProbe(ctx, result.Value)
}

// handleProbeAll probes every fetched model after confirmation
func handleProbeAll(ctx context.Context, sess *session) {
	if len(sess.models) == 0 {
		fmt.Println("⚠️  No models available.")
		return
	}

	prompt := fmt.Sprintf("This will probe all %d models. Continue?", len(sess.models))
	confirm, err := tui.Confirm(prompt, tui.ConfirmOptions{})
	if err != nil || !confirm.IsConfirm() || !confirm.Value {
		return
	}

	sess.runProbe(ctx, probe.IDs(sess.models))
}

// handleSwitchProfile applies a different provider profile to the session
func handleSwitchProfile(ctx context.Context, sess *session) {
	store, err := sess.settings.Profiles()
	if err != nil {
		fmt.Printf("❌ Failed to load profiles: %v\n", err)
		return
	}

	profiles := store.List()
	if len(profiles) == 0 {
		fmt.Printf("⚠️  No profiles defined. Add entries to %s first.\n", store.Path())
		return
	}

	items := make([]tui.SelectItem[config.Profile], 0, len(profiles))
	for _, p := range profiles {
		desc := p.APIBase
		if desc == "" {
			desc = "(inherits current API base)"
		}
		items = append(items, tui.SelectItem[config.Profile]{
			Title:       p.Name,
			Description: desc,
			Value:       p,
		})
	}

	result, err := tui.Select("Select a provider profile", items)
	if err != nil || !result.IsConfirm() {
		return
	}

	sess.settings.ProfileName = result.Value.Name
	if err := sess.settings.ApplyProfile(false, false); err != nil {
		fmt.Printf("❌ Failed to apply profile: %v\n", err)
		return
	}

	fmt.Printf("✅ Switched to profile %q (%s)\n", result.Value.Name, sess.settings.APIBase)

	if err := sess.reconnect(ctx); err != nil {
		fmt.Printf("❌ %v\n", err)
	}
}

// runProbe probes the given models and prints the rendered table
func (s *session) runProbe(ctx context.Context, models []string) {
	rep := report.New(s.client.APIBase(), s.settings.GetVersion())
	for _, model := range models {
		fmt.Printf("Probing model %s...\n", model)
		rep.Add(s.prober.ProbeModel(ctx, model))
	}

	fmt.Println()
	if err := report.Render(os.Stdout, rep, report.FormatTable); err != nil {
		fmt.Printf("❌ Failed to render report: %v\n", err)
	}
}
