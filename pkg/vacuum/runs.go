package vacuum

// Run is a half-open [Start, End) interval of consecutive samples that all
// satisfied a detection predicate.
type Run struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of samples in the run.
func (r Run) Len() int { return r.End - r.Start }

// findRuns scans n samples and extracts the maximal contiguous runs where
// pred is true, discarding runs shorter than minLen samples. A run still
// open at the end of the signal is closed at n and kept if long enough, so
// an event touching the final sample is never silently lost.
//
// Spike grouping and pump-down cycle grouping both reduce to this loop; the
// detectors stay declarative by supplying only the predicate.
func findRuns(n, minLen int, pred func(i int) bool) []Run {
	if minLen < 1 {
		minLen = 1
	}

	var runs []Run
	start := -1

	for i := 0; i < n; i++ {
		switch {
		case pred(i) && start == -1:
			start = i
		case !pred(i) && start != -1:
			if i-start >= minLen {
				runs = append(runs, Run{Start: start, End: i})
			}
			start = -1
		}
	}

	if start != -1 && n-start >= minLen {
		runs = append(runs, Run{Start: start, End: n})
	}

	return runs
}
