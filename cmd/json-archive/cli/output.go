// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/streamhist/jsonarchive/lib/archive"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
	"github.com/streamhist/jsonarchive/lib/ops"
)

// colorCapable reports whether w is a terminal that should receive
// ANSI styling, following the teacher's term.IsTerminal gate
// (cmd/bureau/cli/logger.go) rather than always forcing color.
func colorCapable(w io.Writer, enabled bool) bool {
	if !enabled {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderer(w io.Writer, enabled bool) *lipgloss.Renderer {
	if !colorCapable(w, enabled) {
		r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
		r.SetColorProfile(termenv.Ascii)
		return r
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
	r.SetColorProfile(termenv.ANSI256)
	return r
}

// printInfoHuman renders an ops.InfoResult as a heading plus a table
// of observations, styled through lipgloss when w is a color-capable
// terminal.
func printInfoHuman(w io.Writer, result *ops.InfoResult, color bool) {
	r := renderer(w, color)
	heading := r.NewStyle().Bold(true)
	dim := r.NewStyle().Faint(true)

	fmt.Fprintln(w, heading.Render(result.Path))
	fmt.Fprintf(w, "%s %s\n", dim.Render("created"), result.Header.Created)
	if result.Header.Source != "" {
		fmt.Fprintf(w, "%s %s\n", dim.Render("source"), result.Header.Source)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", dim.Render("index"), dim.Render("kind"), dim.Render("id"), dim.Render("timestamp"), dim.Render("size"))
	for _, m := range result.Observations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", m.Index, kindLabel(m.Kind), m.ID, m.Timestamp, m.DerivedJSONSize)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s on disk (%s, %s than the sum of reconstructed states)\n",
		dim.Render("size"), formatByteSize(result.FileSize), snapshotCountLabel(result.SnapshotCount),
		compressionLabel(result.FileSize, result.TotalJSONSize))
	fmt.Fprintf(w, "%s json-archive state %s --index N\n", dim.Render("see also"), result.Path)
}

func snapshotCountLabel(n int) string {
	if n == 1 {
		return "1 snapshot"
	}
	return fmt.Sprintf("%d snapshots", n)
}

// compressionLabel compares an archive's on-disk size against the
// total size of its reconstructed states, the same ratio
// original_source/src/cmd/info.rs reports as "efficiency_percent".
func compressionLabel(fileSize, totalJSONSize int64) string {
	if totalJSONSize == 0 {
		return "n/a"
	}
	pct := float64(fileSize) / float64(totalJSONSize) * 100
	if pct < 100 {
		return fmt.Sprintf("%.1f%% smaller", 100-pct)
	}
	return fmt.Sprintf("%.1f%% larger", pct-100)
}

func formatByteSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

func kindLabel(k archive.Kind) string {
	if k == archive.KindSnapshot {
		return "snapshot"
	}
	return "delta"
}

// printInfoJSON renders an ops.InfoResult as a single JSON object
// (spec §9: no observation_count key in the JSON form).
func printInfoJSON(w io.Writer, result *ops.InfoResult) {
	obj := jsonvalue.NewOrderedObject()
	obj.Set("path", jsonvalue.String(result.Path))
	obj.Set("created", jsonvalue.String(result.Header.Created))
	if result.Header.Source != "" {
		obj.Set("source", jsonvalue.String(result.Header.Source))
	}
	rows := make([]jsonvalue.Value, len(result.Observations))
	for i, m := range result.Observations {
		row := jsonvalue.NewOrderedObject()
		row.Set("index", jsonvalue.Number(float64(m.Index)))
		row.Set("kind", jsonvalue.String(kindLabel(m.Kind)))
		row.Set("id", jsonvalue.String(m.ID))
		row.Set("timestamp", jsonvalue.String(m.Timestamp))
		row.Set("size", jsonvalue.Number(float64(m.DerivedJSONSize)))
		rows[i] = jsonvalue.NewObject(row)
	}
	obj.Set("observations", jsonvalue.Array(rows))
	obj.Set("file_size", jsonvalue.Number(float64(result.FileSize)))
	obj.Set("snapshot_count", jsonvalue.Number(float64(result.SnapshotCount)))
	obj.Set("total_json_size", jsonvalue.Number(float64(result.TotalJSONSize)))
	fmt.Fprintln(w, jsonvalue.EncodeString(jsonvalue.NewObject(obj)))
}

// printState renders a reconstructed document, syntax-highlighted
// through chroma/quick when w is a color-capable terminal and emitted
// plain otherwise.
func printState(w io.Writer, v jsonvalue.Value, color bool) error {
	text := jsonvalue.EncodeIndentString(v)
	if !colorCapable(w, color) {
		fmt.Fprintln(w, text)
		return nil
	}
	return quick.Highlight(w, text+"\n", "json", "terminal256", "monokai")
}
