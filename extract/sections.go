package extract

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Special sections
// ---------------------------------------------------------------------------

// sectionKind identifies which special-section prefix matched a line.
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionTools
	sectionIMT
	sectionKeyPoints
	sectionNote
)

// sectionPrefixes are the annotation headings recognized mid-document.
// Lines matching one are consumed by the strategy that saw them and
// never become tasks.
var sectionPrefixes = []struct {
	kind sectionKind
	re   *regexp.Regexp
}{
	{sectionTools, regexp.MustCompile(`(?i)^Tools\s+used\s*:\s*`)},
	{sectionIMT, regexp.MustCompile(`(?i)^IMT\s+used\s*:\s*`)},
	{sectionKeyPoints, regexp.MustCompile(`(?i)^Key\s+points\s*:\s*`)},
	{sectionNote, regexp.MustCompile(`(?i)^Note\s*:\s*`)},
}

// matchSection tests a line against the special-section prefixes and
// returns the matched kind plus the text after the prefix.
func matchSection(line string) (sectionKind, string) {
	for _, sp := range sectionPrefixes {
		if loc := sp.re.FindStringIndex(line); loc != nil {
			return sp.kind, strings.TrimSpace(line[loc[1]:])
		}
	}
	return sectionNone, ""
}

// applySection routes a matched special section to the most recently
// emitted task: tool and instrument lists become side-table rows keyed
// by its task number, key points and notes accumulate on its
// specification field with their label retained. Sections arriving
// before any task, or with an empty body, are dropped.
func (r *Result) applySection(kind sectionKind, body string) {
	cur := r.last()
	if cur == nil || body == "" {
		return
	}
	switch kind {
	case sectionTools:
		r.Tools = append(r.Tools, ToolsRecord{TaskNumber: cur.TaskNumber, Tools: body})
	case sectionIMT:
		r.IMT = append(r.IMT, IMTRecord{TaskNumber: cur.TaskNumber, IMT: body})
	case sectionKeyPoints:
		cur.appendSpecification("Key points: " + body)
	case sectionNote:
		cur.appendSpecification("Note: " + body)
	}
}
