package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// Format identifies a report output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected table, json, or markdown)", s)
	}
}

// Render writes the report to w in the requested format.
func Render(w io.Writer, rep *Report, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, rep)
	case FormatMarkdown:
		return renderMarkdown(w, rep)
	case FormatTable, "":
		return renderTable(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func glyph(status FeatureStatus) string {
	if status.Supported {
		return "✓"
	}
	return "✗"
}

func renderTable(w io.Writer, rep *Report) error {
	if rep.ErrorMessage != "" {
		fmt.Fprintf(w, "Error: %s\n", rep.ErrorMessage)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tCHAT\tFUNCTIONS\tJSON MODE\tVISION\tEMBEDDINGS")
	fmt.Fprintln(tw, "-----\t----\t---------\t---------\t------\t----------")

	for _, m := range rep.Models {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Model,
			glyph(m.Chat),
			glyph(m.FunctionCalling),
			glyph(m.JSONOutput),
			glyph(m.Vision),
			glyph(m.Embeddings),
		)
	}

	return tw.Flush()
}

func renderJSON(w io.Writer, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderMarkdown(w io.Writer, rep *Report) error {
	fmt.Fprintln(w, "# API Capability Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- API Base: %s\n", rep.APIBase)
	fmt.Fprintf(w, "- Run ID: %s\n", rep.RunID)
	fmt.Fprintf(w, "- Timestamp: %s\n", rep.Timestamp.Format(time.RFC3339))
	if rep.Version != "" {
		fmt.Fprintf(w, "- Version: %s\n", rep.Version)
	}
	fmt.Fprintln(w)

	if rep.ErrorMessage != "" {
		fmt.Fprintf(w, "**Error:** %s\n", rep.ErrorMessage)
		return nil
	}

	fmt.Fprintln(w, "| Model | Chat | Functions | JSON Mode | Vision | Embeddings |")
	fmt.Fprintln(w, "|-------|------|-----------|-----------|--------|------------|")
	for _, m := range rep.Models {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			m.Model,
			glyph(m.Chat),
			glyph(m.FunctionCalling),
			glyph(m.JSONOutput),
			glyph(m.Vision),
			glyph(m.Embeddings),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Details")
	for i := range rep.Models {
		m := &rep.Models[i]
		fmt.Fprintln(w)
		fmt.Fprintf(w, "### %s\n", m.Model)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "```")
		fmt.Fprintln(w, m.Summary())
		fmt.Fprintln(w, "```")
	}

	return nil
}
