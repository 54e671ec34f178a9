package extract

import (
	"regexp"
	"strconv"
)

// ---------------------------------------------------------------------------
// Step pattern matching
// ---------------------------------------------------------------------------

// stepPatterns are the recognized step-numbering conventions, tried in
// order with the first match winning. Order is significant: the named
// prefixes ("Step N", "Sl. No. N") must pre-empt the bare-number
// fallbacks. Every pattern captures exactly one number and requires
// whitespace after its delimiter, so a bare "5." with no content does
// not match.
var stepPatterns = []*regexp.Regexp{
	// Bare numbered step: "1. Remove the cover"
	regexp.MustCompile(`^(\d+)\.\s+`),
	// "Step 1." / "Step 1:" prefix
	regexp.MustCompile(`^Step\s+(\d+)[.:]?\s+`),
	// Parenthesis style: "1) Remove the cover"
	regexp.MustCompile(`^(\d+)\)\s+`),
	// Single-letter revision prefix: "A 1.", "B-2)", "Q3."
	regexp.MustCompile(`^[A-Za-z][.\-]?\s*(\d+)[.)]\s+`),
	// "Task 1." / "Task 1:" prefix
	regexp.MustCompile(`^Task\s+(\d+)[.:]?\s+`),
	// Serial-number column: "Sl. No. 1", "Sl No 1:"
	regexp.MustCompile(`^Sl\.?\s*No\.?\s*(\d+)[.:]?\s+`),
	// Catch-all for either delimiter
	regexp.MustCompile(`^(\d+)[.)]\s+`),
	// "Procedure 1." variant
	regexp.MustCompile(`^Procedure\s+(\d+)[.:]?\s+`),
	// Serial variant in any casing, delimiter required: "SL NO 1:"
	regexp.MustCompile(`(?i)^SL\s*NO\.?\s*(\d+)[:.]\s+`),
}

// StepMatch is a recognized step-number prefix on a line.
type StepMatch struct {
	Index        int // the captured step number
	ContentStart int // byte offset where the instruction text resumes
}

// MatchStep tests a line against the step-numbering conventions and
// returns the first match. Matching is stateless: each call scans the
// line from the start, nothing persists between calls. A miss is not
// an error; it marks the line as a continuation or non-task line.
func MatchStep(line string) (StepMatch, bool) {
	for _, re := range stepPatterns {
		m := re.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(line[m[2]:m[3]])
		if err != nil || n <= 0 {
			continue
		}
		return StepMatch{Index: n, ContentStart: m[1]}, true
	}
	return StepMatch{}, false
}
