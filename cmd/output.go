package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// Printer writes command results as a table, YAML or JSON.
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter creates a Printer. Unknown formats fall back to table.
func NewPrinter(w io.Writer, format string) *Printer {
	switch format {
	case formatYAML, formatJSON:
	default:
		format = formatTable
	}
	return &Printer{w: w, format: format}
}

// Structured reports whether output is YAML or JSON.
func (p *Printer) Structured() bool {
	return p.format != formatTable
}

// Print writes v in the structured formats, or the table otherwise.
func (p *Printer) Print(v any, t *Table) error {
	switch p.format {
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	default:
		_, err := fmt.Fprintln(p.w, t.Render())
		return err
	}
}

// Line writes a plain line; it is skipped for structured output.
func (p *Printer) Line(format string, args ...any) {
	if p.Structured() {
		return
	}
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Table collects rows for rendering.
type Table struct {
	Headers []string
	Rows    [][]string
	// Right lists zero-based columns that are right aligned.
	Right []int
}

// Append adds a row.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render draws the table with rounded borders.
func (t *Table) Render() string {
	columns := len(t.Headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range t.Headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	right := make(map[int]bool, len(t.Right))
	for _, i := range t.Right {
		right[i] = true
	}
	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if right[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    60,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
