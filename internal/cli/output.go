package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apiprobe-dev/apiprobe/internal/report"
)

func resolveFormat(jsonOutput, markdown bool) (report.Format, error) {
	if jsonOutput && markdown {
		return "", fmt.Errorf("--json and --markdown are mutually exclusive")
	}
	switch {
	case jsonOutput:
		return report.FormatJSON, nil
	case markdown:
		return report.FormatMarkdown, nil
	default:
		return report.FormatTable, nil
	}
}

// writeReport renders the report to stdout, or to outputFile when given.
func writeReport(cmd *cobra.Command, rep *report.Report, format report.Format, outputFile string) error {
	if outputFile == "" {
		return report.Render(cmd.OutOrStdout(), rep, format)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := report.Render(f, rep, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputFile)
	return nil
}
