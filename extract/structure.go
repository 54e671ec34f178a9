package extract

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Structure detection
// ---------------------------------------------------------------------------

// tableIndicators mark a line as belonging to a column layout. A line
// counts once no matter how many indicators it matches.
var tableIndicators = []*regexp.Regexp{
	// Tab-separated columns
	regexp.MustCompile(`\t`),
	// Runs of two or more spaces standing in for column gaps
	regexp.MustCompile(`\S {2,}\S`),
	// Numbered rows: "1. text" / "1) text"
	regexp.MustCompile(`^\s*\d+[.)]\s+\S`),
}

// TableLikeness returns the fraction of non-blank lines that match a
// table indicator, in [0, 1].
func TableLikeness(text string) float64 {
	total, matching := 0, 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		for _, re := range tableIndicators {
			if re.MatchString(line) {
				matching++
				break
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matching) / float64(total)
}

// LooksLikeTable reports whether the document body reads as a column
// layout rather than narrative text. This is a heuristic; mistakes are
// absorbed by the extraction cascade, not corrected here.
func LooksLikeTable(text string) bool {
	return TableLikeness(text) > DefaultTableThreshold
}
