package results

// Summary is the aggregate of a set of records. SuccessRate is a percentage.
type Summary struct {
	Total           int     `json:"total_tests"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	SuccessRate     float64 `json:"success_rate"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// CategorySummary is the Summary of the records in one category.
type CategorySummary struct {
	Category string `json:"category"`
	Summary
}

// MeetsThreshold reports whether the success rate is at least percent.
func (s Summary) MeetsThreshold(percent float64) bool {
	return s.SuccessRate >= percent
}

// Summarize computes totals, success rate, and mean response time. An empty input yields
// all zeros.
func Summarize(records []TestRecord) Summary {
	var s Summary
	var totalTime float64
	for _, r := range records {
		s.Total++
		if r.Success {
			s.Passed++
		}
		totalTime += r.ResponseTime
	}
	s.Failed = s.Total - s.Passed
	if s.Total > 0 {
		s.SuccessRate = float64(s.Passed) / float64(s.Total) * 100
		s.AvgResponseTime = totalTime / float64(s.Total)
	}
	return s
}

// SummarizeByCategory groups records by category, in the order each category first appears.
func SummarizeByCategory(records []TestRecord) []CategorySummary {
	var order []string
	groups := make(map[string][]TestRecord)
	for _, r := range records {
		if _, ok := groups[r.Category]; !ok {
			order = append(order, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r)
	}
	ret := make([]CategorySummary, 0, len(order))
	for _, name := range order {
		ret = append(ret, CategorySummary{Category: name, Summary: Summarize(groups[name])})
	}
	return ret
}

// FilterCategory returns the records in one category, in order.
func FilterCategory(records []TestRecord, category string) []TestRecord {
	var ret []TestRecord
	for _, r := range records {
		if r.Category == category {
			ret = append(ret, r)
		}
	}
	return ret
}
