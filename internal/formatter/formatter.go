// package formatter renders API resources and token state as text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/desertthunder/spotkit/internal/shared"
)

// Format selects an output representation.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// ParseFormat accepts a format name; "md" is short for markdown and empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Table is a titled grid. Source is what JSON output encodes instead of the rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Source  any
}

// Render encodes t in format f.
func Render(t Table, f Format) ([]byte, error) {
	switch f {
	case FormatText, "":
		return renderText(t)
	case FormatMarkdown:
		return renderMarkdown(t), nil
	case FormatCSV:
		return renderCSV(t)
	case FormatJSON:
		src := t.Source
		if src == nil {
			src = t.records()
		}
		data, err := shared.MarshalJSON(src, true)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// Write renders t to w.
func Write(w io.Writer, t Table, f Format) error {
	data, err := Render(t, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// records pairs each row with the headers for JSON output of tables without a source.
func (t Table) records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

func renderText(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if t.Title != "" {
		fmt.Fprintf(&buf, "%s\n\n", t.Title)
	}

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to align output: %w", err)
	}
	return buf.Bytes(), nil
}

func renderMarkdown(t Table) []byte {
	var buf bytes.Buffer
	if t.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", t.Title)
	}

	fmt.Fprintf(&buf, "| %s |\n", strings.Join(t.Headers, " | "))
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(&buf, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		fmt.Fprintf(&buf, "| %s |\n", strings.Join(cells, " | "))
	}
	return buf.Bytes()
}

func renderCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
