package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Aggressive strategy
// ---------------------------------------------------------------------------

// actionVerbs are imperative verbs that commonly open an instruction
// in assembly and maintenance procedures.
var actionVerbs = map[string]bool{
	"install": true, "remove": true, "check": true, "ensure": true,
	"connect": true, "disconnect": true, "tighten": true, "loosen": true,
	"place": true, "insert": true, "fit": true, "mount": true,
	"apply": true, "open": true, "close": true, "verify": true,
	"inspect": true, "clean": true, "replace": true, "adjust": true,
	"align": true, "measure": true, "secure": true, "attach": true,
	"lift": true, "press": true, "turn": true, "rotate": true,
	"position": true, "lower": true, "raise": true, "slide": true,
	"hold": true, "release": true,
}

// blankLineSplit separates blank-line-delimited paragraphs.
var blankLineSplit = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs breaks text into paragraphs and collapses each one's
// internal whitespace to single spaces.
func splitParagraphs(text string) []string {
	var paras []string
	for _, block := range blankLineSplit.Split(text, -1) {
		fields := strings.Fields(block)
		if len(fields) == 0 {
			continue
		}
		paras = append(paras, strings.Join(fields, " "))
	}
	return paras
}

// looksLikeInstruction reports whether a paragraph plausibly reads as
// a procedural instruction: it opens with a known action verb, or it
// is a capitalized sentence of at least three words.
func looksLikeInstruction(para string) bool {
	words := strings.Fields(para)
	if len(words) == 0 {
		return false
	}
	first := strings.ToLower(strings.Trim(words[0], ".,:;"))
	if actionVerbs[first] {
		return true
	}
	r, _ := utf8.DecodeRuneInString(para)
	return unicode.IsUpper(r) && len(words) >= 3
}

// skipParagraph filters out paragraphs that cannot be tasks: too
// short, a repeat of the document title, or a table header.
func skipParagraph(para, title string, minLen int) bool {
	if utf8.RuneCountInString(para) < minLen {
		return true
	}
	if title != "" && strings.EqualFold(para, strings.TrimSpace(title)) {
		return true
	}
	return isHeaderLine(para)
}

// aggressiveStrategy is the fallback of last resort for documents with
// no recognizable step structure. It works on blank-line-delimited
// paragraphs, takes a leading number when one exists, and otherwise
// decides by the instruction heuristic with an incrementing counter.
// If even that yields nothing it degrades further and emits every
// non-trivial paragraph in order.
type aggressiveStrategy struct{}

func (aggressiveStrategy) Name() string { return "aggressive" }

func (aggressiveStrategy) Extract(doc Document, p Params) *Result {
	paras := splitParagraphs(doc.Text)

	res := extractParagraphs(paras, doc.Title, p, false)
	if len(res.Tasks) > 0 {
		return res
	}
	return extractParagraphs(paras, doc.Title, p, true)
}

// extractParagraphs is one pass over the paragraph list. In degraded
// mode the instruction heuristic is dropped and only the length/title/
// header filters apply.
func extractParagraphs(paras []string, title string, p Params, degraded bool) *Result {
	res := &Result{}
	next := 1
	for _, para := range paras {
		if kind, body := matchSection(para); kind != sectionNone {
			res.applySection(kind, body)
			continue
		}
		if skipParagraph(para, title, p.MinParagraphLen) {
			continue
		}
		if m, ok := MatchStep(para); ok {
			res.Tasks = append(res.Tasks, newTask(m.Index, strings.TrimSpace(para[m.ContentStart:]), p))
			next = m.Index + 1
			continue
		}
		if degraded || looksLikeInstruction(para) {
			res.Tasks = append(res.Tasks, newTask(next, para, p))
			next++
		}
	}
	return res
}
