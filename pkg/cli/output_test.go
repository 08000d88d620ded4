package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

var testTable = Table{
	Headers: []string{"file", "kind", "status"},
	Rows: [][]string{
		{"a.json", "environment", "imported"},
		{"b.json", "conditional_policy_set", "skipped"},
	},
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"junit", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, "test message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "test message\n" {
		t.Errorf("FormatTo() = %q", buf.String())
	}
}

func TestTextFormatter_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, testTable); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "FILE") {
		t.Errorf("header = %q, want upper-case headers", lines[0])
	}
	// Columns are aligned: "kind" starts at the same offset on every line
	offset := strings.Index(lines[0], "KIND")
	if strings.Index(lines[1], "environment") != offset || strings.Index(lines[2], "conditional_policy_set") != offset {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestJSONFormatter_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatJSON).FormatTo(buf, testTable); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var records []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(records) != 2 || records[1]["status"] != "skipped" {
		t.Errorf("records = %v", records)
	}
}

func TestJSONFormatter_Indent(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&JSONFormatter{Indent: false}).FormatTo(buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"a\":1}\n" {
		t.Errorf("FormatTo() = %q", buf.String())
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatCSV).FormatTo(buf, testTable); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "file,kind,status\na.json,environment,imported\nb.json,conditional_policy_set,skipped\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	if err := NewFormatter(FormatCSV).FormatTo(buf, "not a table"); err == nil {
		t.Error("expected error for non-table data")
	}
}
