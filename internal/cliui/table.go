package cliui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// FactRow is one (node, fact, value) triple — the shape every facts or
// fact_contents result flattens to once it leaves its per-node grouping.
type FactRow struct {
	Node  string
	Fact  string
	Value string
}

// FactTable renders fact rows as NODE/FACT/VALUE columns in query-result
// order, the flat alternative to grouping output under a Header per node.
// Consecutive rows for the same node leave the NODE column blank after
// the first, the way `kubectl get -o wide` avoids repeating an owner
// column down a long list.
type FactTable struct {
	writer  io.Writer
	rows    []FactRow
	noColor bool
}

// NewFactTable creates a new fact table.
func NewFactTable(w io.Writer, noColor bool) *FactTable {
	return &FactTable{writer: w, noColor: noColor}
}

// AddRow adds a fact row to the table.
func (t *FactTable) AddRow(node, fact, value string) {
	t.rows = append(t.rows, FactRow{Node: node, Fact: fact, Value: value})
}

// Render renders the table to the writer.
func (t *FactTable) Render() {
	if len(t.rows) == 0 {
		return
	}

	headers := [3]string{"NODE", "FACT", "VALUE"}
	widths := [3]int{len(headers[0]), len(headers[1]), len(headers[2])}
	for _, r := range t.rows {
		widths[0] = max(widths[0], len(r.Node))
		widths[1] = max(widths[1], len(r.Fact))
		widths[2] = max(widths[2], len(r.Value))
	}

	bold := color.New(color.Bold, color.FgCyan)
	if t.noColor {
		bold.DisableColor()
	}
	for i, header := range headers {
		bold.Fprint(t.writer, padRight(header, widths[i]))
		if i < len(headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	gray := color.New(color.FgHiBlack)
	if t.noColor {
		gray.DisableColor()
	}
	for i, width := range widths {
		gray.Fprint(t.writer, strings.Repeat("─", width))
		if i < len(widths)-1 {
			gray.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	lastNode := ""
	first := true
	for _, r := range t.rows {
		node := r.Node
		if !first && node == lastNode {
			node = ""
		} else {
			lastNode = node
			first = false
		}
		fmt.Fprint(t.writer, padRight(node, widths[0]), "  ")
		fmt.Fprint(t.writer, padRight(r.Fact, widths[1]), "  ")
		fmt.Fprintln(t.writer, r.Value)
	}
}

// padRight pads a string with spaces on the right to reach the target width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// KeyValueTable renders a node's facts as a two-column key/value table,
// the per-node grouped counterpart to FactTable's flat rendering.
type KeyValueTable struct {
	writer  io.Writer
	rows    []kvRow
	noColor bool
}

type kvRow struct {
	key   string
	value string
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{
		writer:  w,
		rows:    make([]kvRow, 0),
		noColor: noColor,
	}
}

// AddRow adds a fact name and its value to the table.
func (t *KeyValueTable) AddRow(fact, value string) {
	t.rows = append(t.rows, kvRow{key: fact, value: value})
}

// Render renders the key-value table
func (t *KeyValueTable) Render() {
	if len(t.rows) == 0 {
		return
	}

	maxKeyWidth := 0
	for _, row := range t.rows {
		maxKeyWidth = max(maxKeyWidth, len(row.key))
	}

	cyan := color.New(color.FgCyan)
	if t.noColor {
		cyan.DisableColor()
	}
	for _, row := range t.rows {
		cyan.Fprint(t.writer, padRight(row.key+":", maxKeyWidth+1))
		fmt.Fprintf(t.writer, " %s\n", row.value)
	}
}

// Divider renders a horizontal divider line
func Divider(w io.Writer, width int, noColor bool) {
	if width == 0 {
		width = 80
	}

	gray := color.New(color.FgHiBlack)
	if noColor {
		gray.DisableColor()
	}
	gray.Fprintln(w, strings.Repeat("─", width))
}

// Header renders a node name (or other section title) above a divider,
// the banner printed before each node's KeyValueTable in grouped output.
func Header(w io.Writer, title string, noColor bool) {
	bold := color.New(color.Bold, color.FgCyan)
	if noColor {
		bold.DisableColor()
	}
	bold.Fprintln(w, title)
	Divider(w, len(title), noColor)
}
