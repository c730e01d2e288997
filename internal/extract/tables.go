package extract

import "strings"

// minTableRun is the shortest run of tabular lines kept as a table.
const minTableRun = 3

// IsTabular reports whether a line looks like part of a table: it has a tab,
// or more than four whitespace-separated tokens.
func IsTabular(line string) bool {
	return strings.Contains(line, "\t") || len(strings.Fields(line)) > 4
}

// SegmentTables groups consecutive tabular lines into candidate tables.
// Runs shorter than three lines are dropped.
func SegmentTables(lines []string) []string {
	var tables []string
	var run []string
	flush := func() {
		if len(run) >= minTableRun {
			tables = append(tables, strings.Join(run, "\n"))
		}
		run = run[:0]
	}
	for _, line := range lines {
		if IsTabular(line) {
			run = append(run, strings.TrimSpace(line))
			continue
		}
		flush()
	}
	flush()
	return tables
}
