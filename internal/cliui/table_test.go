package cliui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFactTable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewFactTable(&buf, true)

	table.AddRow("node1.example.com", "kernel", "Linux")
	table.AddRow("node1.example.com", "architecture", "x86_64")
	table.AddRow("node2.example.com", "kernel", "Linux")

	table.Render()

	output := buf.String()

	for _, want := range []string{"NODE", "FACT", "VALUE", "node1.example.com", "kernel", "Linux", "architecture", "x86_64", "node2.example.com"} {
		if !strings.Contains(output, want) {
			t.Errorf("FactTable output missing %q:\n%s", want, output)
		}
	}

	if !strings.Contains(output, "─") {
		t.Error("FactTable output missing separator")
	}
}

func TestFactTableBlanksRepeatedNode(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewFactTable(&buf, true)

	table.AddRow("node1.example.com", "kernel", "Linux")
	table.AddRow("node1.example.com", "architecture", "x86_64")

	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header, separator, 2 rows), got %d:\n%s", len(lines), buf.String())
	}

	if !strings.HasPrefix(lines[2], "node1.example.com") {
		t.Errorf("first data row should carry the node name, got %q", lines[2])
	}
	if strings.HasPrefix(lines[3], "node1.example.com") {
		t.Errorf("second data row for the same node should leave NODE blank, got %q", lines[3])
	}
	if !strings.Contains(lines[3], "architecture") {
		t.Errorf("second data row missing its fact name, got %q", lines[3])
	}
}

func TestFactTableEmpty(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewFactTable(&buf, true)
	table.Render()

	if output := buf.String(); output != "" {
		t.Errorf("expected empty output for a table with no rows, got: %q", output)
	}
}

func TestKeyValueTable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	kvTable := NewKeyValueTable(&buf, true)

	kvTable.AddRow("kernel", "Linux")
	kvTable.AddRow("architecture", "x86_64")
	kvTable.AddRow("is_virtual", "false")

	kvTable.Render()

	output := buf.String()

	expected := []string{
		"kernel:",
		"Linux",
		"architecture:",
		"x86_64",
		"is_virtual:",
		"false",
	}

	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("KeyValueTable output missing: %q", exp)
		}
	}
}

func TestKeyValueTableEmpty(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	kvTable := NewKeyValueTable(&buf, true)

	kvTable.Render()

	output := buf.String()
	if output != "" {
		t.Errorf("Expected empty output for empty KeyValueTable, got: %q", output)
	}
}

func TestDivider(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	Divider(&buf, 40, true)

	output := buf.String()

	if !strings.Contains(output, "─") {
		t.Errorf("Divider output missing line character")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 0 && len(lines[0]) < 30 {
		t.Errorf("Divider seems too short")
	}
}

func TestDividerDefaultWidth(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	Divider(&buf, 0, true) // 0 should use default width of 80

	output := buf.String()

	if !strings.Contains(output, "─") {
		t.Errorf("Divider output missing line character")
	}
}

func TestHeader(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	Header(&buf, "node1.example.com", true)

	output := buf.String()

	if !strings.Contains(output, "node1.example.com") {
		t.Errorf("Header output missing title")
	}

	if !strings.Contains(output, "─") {
		t.Errorf("Header output missing divider")
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"test", 10, "test      "},
		{"test", 4, "test"},
		{"test", 2, "test"},
		{"", 5, "     "},
	}

	for _, tt := range tests {
		result := padRight(tt.input, tt.width)
		if result != tt.expected {
			t.Errorf("padRight(%q, %d) = %q; want %q", tt.input, tt.width, result, tt.expected)
		}
	}
}

func TestFactTableAlignment(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewFactTable(&buf, true)

	table.AddRow("n1", "kernel", "Linux")
	table.AddRow("n1", "operatingsystemrelease", "22.04")

	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header, separator, 2 rows), got %d", len(lines))
	}

	for i, line := range lines {
		if len(line) < 10 {
			t.Errorf("line %d seems too short for proper column alignment: %q", i, line)
		}
	}
}
