package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/apiprobe-dev/apiprobe/internal/cli"
	"github.com/apiprobe-dev/apiprobe/internal/config"
	"github.com/apiprobe-dev/apiprobe/internal/constant"
	"github.com/apiprobe-dev/apiprobe/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "apiprobe",
	Short: "Probe OpenAI-compatible APIs for model capabilities",
	Long: `apiprobe probes an OpenAI-compatible API endpoint to discover available
models and their capabilities: chat completions, function calling, JSON mode,
vision, and embeddings. Results render as a terminal table, JSON, or markdown.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		settings.Verbose = verbose
		settings.LogFile = flagLogFile
		if err := logging.Setup(verbose, flagLogFile); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		// Flag names only; values may hold credentials
		cmd.Flags().Visit(func(f *pflag.Flag) {
			logrus.Debugf("flag --%s set on command line", f.Name)
		})

		// Priority: CLI flag > profile > environment > default
		if flagAPIKey != "" {
			settings.APIKey = flagAPIKey
		}
		if flagAPIBase != "" {
			settings.APIBase = flagAPIBase
		}
		if cmd.Flags().Changed("timeout") {
			settings.Timeout = time.Duration(flagTimeout) * time.Second
		}

		settings.ProfileName = flagProfile
		return settings.ApplyProfile(cmd.Flags().Changed("api-key"), cmd.Flags().Changed("api-base"))
	},
}

// Build information variables
var (
	// Set by compiler via -ldflags
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
	platform  = "unknown"

	// Global flags
	flagAPIKey  string
	flagAPIBase string
	flagProfile string
	flagTimeout int
	flagLogFile string

	settings = config.NewSettings()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagAPIKey, "api-key", "k", "", "API key (default: OPENAI_API_KEY environment variable)")
	rootCmd.PersistentFlags().StringVarP(&flagAPIBase, "api-base", "b", "", "API base URL (default: OPENAI_API_BASE environment variable or "+constant.DefaultAPIBase+")")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Provider profile from the profiles file")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", constant.DefaultRequestTimeout, "Probe request timeout in seconds")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Rotating log file path (default: stderr only)")

	settings.SetVersion(version)
	rootCmd.Version = version

	// Add version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiprobe CLI\n")
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Git Commit: %s\n", gitCommit)
			fmt.Printf("Build Time: %s\n", buildTime)
			fmt.Printf("Go Version: %s\n", goVersion)
			fmt.Printf("Platform:   %s\n", platform)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.ModelsCommand(settings))
	rootCmd.AddCommand(cli.ProbeCommand(settings))
	rootCmd.AddCommand(cli.EndpointCommand(settings))
	rootCmd.AddCommand(cli.ShellCommand(settings))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Only print usage for Cobra CLI errors (flag/argument errors), not runtime errors
		if isCobraFlagError(err) {
			rootCmd.PrintErrln(rootCmd.UsageString())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isCobraFlagError checks if the error is a Cobra CLI parsing error
func isCobraFlagError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// Cobra flag/argument errors contain these patterns
	return strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "flag needs an argument") ||
		strings.Contains(errStr, "bad flag syntax") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "too many arguments")
}
