package postprocess

import "strings"

// repairTables walks the document looking for pipe-table header rows
// that have no separator row beneath them and inserts a minimal one, and
// re-joins cells that were split across consecutive lines by a stray
// newline inside a cell. The line-by-line "is this a table row" walk is
// the same shape the teacher used to deduplicate specification rows,
// generalised here from dedup to repair.
func repairTables(s string) string {
	lines := strings.Split(s, "\n")
	var out []string

	isRow := func(l string) bool {
		t := strings.TrimSpace(l)
		return strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|") && strings.Count(t, "|") >= 2
	}
	isSeparator := func(l string) bool {
		t := strings.TrimSpace(l)
		if !isRow(t) {
			return false
		}
		for _, cell := range splitCells(t) {
			c := strings.TrimSpace(cell)
			if c == "" {
				continue
			}
			for _, r := range c {
				if r != '-' && r != ':' {
					return false
				}
			}
		}
		return true
	}

	prevWasRow := false
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		joined := joinSplitCell(line, lines, &i)
		out = append(out, joined)

		isHeader := isRow(joined) && !isSeparator(joined) && !prevWasRow
		if isHeader {
			nextIsSeparator := i+1 < len(lines) && isSeparator(lines[i+1])
			if !nextIsSeparator {
				cols := len(splitCells(joined))
				out = append(out, minimalSeparator(cols))
			}
		}
		prevWasRow = isRow(joined)
	}
	return strings.Join(out, "\n")
}

func splitCells(row string) []string {
	t := strings.TrimSpace(row)
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	return strings.Split(t, "|")
}

func minimalSeparator(cols int) string {
	if cols < 1 {
		cols = 1
	}
	cells := make([]string, cols)
	for i := range cells {
		cells[i] = "---"
	}
	return "|" + strings.Join(cells, "|") + "|"
}

// joinSplitCell detects a row whose final cell was split across the
// next physical line by an accidental newline (the continuation line
// has no leading "|"), and rejoins it before returning the (possibly
// combined) line. *i is advanced past any consumed continuation line.
func joinSplitCell(line string, lines []string, i *int) string {
	if !strings.HasPrefix(strings.TrimSpace(line), "|") {
		return line
	}
	t := strings.TrimRight(line, " \t")
	for !strings.HasSuffix(t, "|") && *i+1 < len(lines) {
		cont := lines[*i+1]
		if strings.HasPrefix(strings.TrimSpace(cont), "|") || strings.TrimSpace(cont) == "" {
			break
		}
		t = t + " " + strings.TrimSpace(cont)
		*i++
	}
	return t
}
