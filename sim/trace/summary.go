package trace

// Summary aggregates statistics from a RunTrace.
type Summary struct {
	TotalFirings int
	PostedCount  int
	FinalTime    float64
	ByEvent      map[string]int // event name → firing count
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *Summary {
	s := &Summary{ByEvent: make(map[string]int)}
	if rt == nil {
		return s
	}
	s.TotalFirings = len(rt.Firings)
	s.FinalTime = rt.FinalTime
	for _, f := range rt.Firings {
		if f.Name == "" && f.Element == nil {
			s.PostedCount++
			continue
		}
		s.ByEvent[f.Name]++
	}
	return s
}
