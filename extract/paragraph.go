package extract

import "strings"

// ---------------------------------------------------------------------------
// Paragraph strategy
// ---------------------------------------------------------------------------

// paragraphStrategy treats the document as a running stream of lines.
// A step-pattern match opens a new task; every non-matching line in
// between is appended, space-joined, to the open task's activity.
// Numbering gaps are filled with placeholder tasks so the output stays
// numerically contiguous.
type paragraphStrategy struct{}

func (paragraphStrategy) Name() string { return "paragraph" }

func (paragraphStrategy) Extract(doc Document, p Params) *Result {
	res := &Result{}
	lastIndex := 0
	for _, raw := range doc.Lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if kind, body := matchSection(line); kind != sectionNone {
			res.applySection(kind, body)
			continue
		}
		m, ok := MatchStep(line)
		if !ok {
			// Continuation of the open task. Lines before the first
			// step (title, preamble) belong to no task and are dropped.
			if t := res.last(); t != nil {
				t.Activity += " " + line
			}
			continue
		}
		if m.Index > lastIndex+1 {
			for missing := lastIndex + 1; missing < m.Index; missing++ {
				res.Tasks = append(res.Tasks, newTask(missing, PlaceholderActivity, p))
			}
		}
		res.Tasks = append(res.Tasks, newTask(m.Index, strings.TrimSpace(line[m.ContentStart:]), p))
		lastIndex = m.Index
	}
	return res
}
