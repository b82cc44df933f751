package monitoring

// Progress logs a "done / total" line every Every steps and on the last step.
type Progress struct {
	Prefix string
	Total  int
	Every  int
}

// NewProgress returns a reporter for total steps. every <= 0 logs only the
// final step.
func NewProgress(prefix string, total, every int) *Progress {
	return &Progress{Prefix: prefix, Total: total, Every: every}
}

// Step reports that step i (zero-based) has completed.
func (p *Progress) Step(i int) {
	done := i + 1
	if done == p.Total || (p.Every > 0 && done%p.Every == 0) {
		Logf("%s\t%d\t/\t%d", p.Prefix, done, p.Total)
	}
}
