package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTabular(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"tab with two tokens", "A\tB", true},
		{"lone tab", "\t", true},
		{"five tokens", "one two three four five", true},
		{"four tokens", "one two three four", false},
		{"extra spacing four tokens", "  one   two  three    four  ", false},
		{"empty", "", false},
		{"single word", "Summary", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTabular(tt.line))
		})
	}
}

func TestSegmentTables(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "run of three surrounded by prose",
			lines: []string{"Intro", " a\tb ", "c\td", "e\tf  ", "Outro"},
			want:  []string{"a\tb\nc\td\ne\tf"},
		},
		{
			name:  "run of two is dropped",
			lines: []string{"Intro", "a\tb", "c\td", "Outro"},
			want:  nil,
		},
		{
			name:  "trailing run is flushed",
			lines: []string{"Intro", "a\tb", "c\td", "e\tf"},
			want:  []string{"a\tb\nc\td\ne\tf"},
		},
		{
			name:  "trailing run of two is dropped",
			lines: []string{"a\tb", "c\td", "e\tf", "prose", "g\th", "i\tj"},
			want:  []string{"a\tb\nc\td\ne\tf"},
		},
		{
			name:  "word count rows",
			lines: []string{"Name Qty Price Tax Total", "Pen 2 1.00 0.20 2.40", "Ink 1 3.00 0.60 3.60"},
			want:  []string{"Name Qty Price Tax Total\nPen 2 1.00 0.20 2.40\nInk 1 3.00 0.60 3.60"},
		},
		{
			name:  "two separate tables",
			lines: []string{"a\tb", "c\td", "e\tf", "", "1\t2", "3\t4", "5\t6", "7\t8"},
			want:  []string{"a\tb\nc\td\ne\tf", "1\t2\n3\t4\n5\t6\n7\t8"},
		},
		{
			name:  "no lines",
			lines: nil,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentTables(tt.lines))
		})
	}
}

func TestSegmentTablesMixedScenario(t *testing.T) {
	lines := []string{"A\tB", "C\tD", "E\tF", "normal sentence", "G\tH\tI"}

	got := SegmentTables(lines)

	assert.Equal(t, []string{"A\tB\nC\tD\nE\tF"}, got)
}
