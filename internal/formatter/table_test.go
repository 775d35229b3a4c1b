package formatter

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:   "Basic table",
			header: []string{"Header 1", "Header 2"},
			rows:   [][]string{{"val 1", "val 2"}},
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name:   "Minimum separator width",
			header: []string{"H1", "H2"},
			rows:   [][]string{{"v1", "v2"}},
			expected: `
| H1  | H2  |
| --- | --- |
| v1  | v2  |
`,
		},
		{
			name:   "Ragged rows padded",
			header: []string{"A"},
			rows:   [][]string{{"x", "extra"}},
			expected: `
| A   |       |
| --- | ----- |
| x   | extra |
`,
		},
		{
			name:   "Mixed CJK and ASCII",
			header: []string{"Line", "URL"},
			rows: [][]string{
				{"2", "https://例え.テスト/ログイン"},
				{"10", "https://a.io"},
			},
			// 例え.テスト/ログイン is 2+2+1+2+2+2+1+2+2+2+2 = 20 columns, plus 8 for the scheme.
			expected: `
| Line | URL                          |
| ---- | ---------------------------- |
| 2    | https://例え.テスト/ログイン |
| 10   | https://a.io                 |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(Table(tt.header, tt.rows), "\n")

			if got != strings.TrimSpace(tt.expected) {
				t.Errorf("Table() = \n%v\nwant \n%v", got, strings.TrimSpace(tt.expected))
			}
		})
	}
}

func TestTable_Empty(t *testing.T) {
	if got := Table(nil, nil); got != nil {
		t.Errorf("Table(nil, nil) = %v, want nil", got)
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"Pipe escaped", "a|b", 0, `a\|b`},
		{"Whitespace collapsed", "a \t b\nc", 0, "a b c"},
		{"Truncated", "abcdefghij", 8, "abcde..."},
		{"Short kept", "abc", 8, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cell(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("Cell(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}
