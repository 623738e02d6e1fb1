package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Lang", "WPM", "Acc"}
	rows := [][]string{
		{"go", "97", "12%"},
		{"csharp", "8", "100%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Lang   WPM  Acc" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "go      97  12%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "csharp   8 100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"Name", "WPM"}, [][]string{{"日本", "1"}, {"ab", "22"}}, map[int]bool{1: true})
	if lines[1] != "日本   1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab    22" {
		t.Fatalf("unexpected ascii row: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := FormatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
