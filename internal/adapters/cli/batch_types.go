package cli

import "time"

// BatchResult represents the result of processing a single file in a batch
type BatchResult struct {
	Source   string
	Success  bool
	Error    string
	Duration time.Duration
	Cached   bool // true if every transcript came from cache
	Outputs  []string
}

// BatchSummary aggregates results from a batch run
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []BatchResult
}

// Summarize counts successes and failures, keeping input order
func Summarize(results []BatchResult) *BatchSummary {
	s := &BatchSummary{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// FailedResults returns only the failed results
func (s *BatchSummary) FailedResults() []BatchResult {
	var failed []BatchResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
