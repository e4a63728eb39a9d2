package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"olympicstats/pkg/contracts/domain"
)

// RenderFormats lists the formats RenderTable understands
var RenderFormats = []string{"table", "markdown", "csv", "json"}

// RenderTable prints t to w for a terminal. Unknown formats fall back to
// a boxed table.
func RenderTable(w io.Writer, t domain.Tabular, format string) error {
	header := t.Header()
	records := t.Records()

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recordMaps(header, records))
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	tw.AppendHeader(headerRow)

	for _, rec := range records {
		row := make(table.Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		tw.AppendRow(row)
	}

	switch format {
	case "markdown", "md":
		tw.RenderMarkdown()
	case "csv":
		tw.RenderCSV()
	default:
		tw.SetStyle(table.StyleLight)
		tw.Render()
		_, err := fmt.Fprintf(w, "(%d rows)\n", len(records))
		return err
	}
	return nil
}
