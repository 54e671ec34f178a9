package extract

// ---------------------------------------------------------------------------
// Strategy cascade
// ---------------------------------------------------------------------------

// Strategy is one extraction approach. Strategies are pure over their
// inputs and uniform in their result type: an empty task list is the
// signal to try the next strategy, never an error.
type Strategy interface {
	Name() string
	Extract(doc Document, p Params) *Result
}

// strategyOrder returns the cascade for a structure classification:
// the recommended strategy first, then the others in fixed fallback
// order, with aggressive always last.
func strategyOrder(tableLike bool) []Strategy {
	if tableLike {
		return []Strategy{tableStrategy{}, paragraphStrategy{}, aggressiveStrategy{}}
	}
	return []Strategy{paragraphStrategy{}, tableStrategy{}, aggressiveStrategy{}}
}

// Run classifies the document structure, then tries the strategies in
// the cascade order, stopping at the first one that yields tasks. The
// winning strategy's name is returned for reporting. When every
// strategy comes back empty the result is non-nil with zero tasks;
// deciding that this is an error belongs to the caller.
func Run(doc Document, p Params) (*Result, string) {
	p = p.withDefaults()
	tableLike := TableLikeness(doc.Text) > p.TableThreshold
	for _, s := range strategyOrder(tableLike) {
		res := s.Extract(doc, p)
		if len(res.Tasks) > 0 {
			return res, s.Name()
		}
	}
	return &Result{}, ""
}
