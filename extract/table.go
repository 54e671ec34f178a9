package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Table strategy
// ---------------------------------------------------------------------------

// headerTerms is the vocabulary of column-heading words. A line built
// from these is a table header, not a step.
var headerTerms = []string{
	"sl no", "sl.no", "sl. no", "serial no", "task no",
	"step no", "description", "activity", "job details", "operation",
}

// headerLineMax is the longest a line may be and still count as a
// header on vocabulary alone; longer lines must also show a column
// separator.
const headerLineMax = 64

// columnSplit separates table cells flattened into plain text: a tab,
// or a run of three or more spaces.
var columnSplit = regexp.MustCompile(`\t+| {3,}`)

// isHeaderLine reports whether a line is a table header rather than
// content. A line that carries a step number is never a header.
func isHeaderLine(line string) bool {
	if _, ok := MatchStep(line); ok {
		return false
	}
	lower := strings.ToLower(line)
	hit := false
	for _, term := range headerTerms {
		if strings.Contains(lower, term) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	return len(line) <= headerLineMax || columnSplit.MatchString(line)
}

// splitColumns splits a row on column separators and interprets the
// first cell as the step index. Rows whose first cell is not a
// positive number, or that carry no content past it, do not split.
func splitColumns(line string) (int, string, bool) {
	cols := columnSplit.Split(line, -1)
	if len(cols) < 2 {
		return 0, "", false
	}
	first := strings.TrimRight(strings.TrimSpace(cols[0]), ".)")
	n, err := strconv.Atoi(first)
	if err != nil || n <= 0 {
		return 0, "", false
	}
	rest := strings.TrimSpace(strings.Join(cols[1:], " "))
	if rest == "" {
		return 0, "", false
	}
	return n, rest, true
}

// tableStrategy emits one task per recognized row. It never
// accumulates multi-line activities; a row either yields a task or is
// skipped.
type tableStrategy struct{}

func (tableStrategy) Name() string { return "table" }

func (tableStrategy) Extract(doc Document, p Params) *Result {
	res := &Result{}
	for _, raw := range doc.Lines {
		line := strings.TrimSpace(raw)
		if line == "" || isHeaderLine(line) {
			continue
		}
		if kind, body := matchSection(line); kind != sectionNone {
			res.applySection(kind, body)
			continue
		}
		if m, ok := MatchStep(line); ok {
			res.Tasks = append(res.Tasks, newTask(m.Index, strings.TrimSpace(line[m.ContentStart:]), p))
			continue
		}
		if n, rest, ok := splitColumns(line); ok {
			res.Tasks = append(res.Tasks, newTask(n, rest, p))
		}
	}
	return res
}
