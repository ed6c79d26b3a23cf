package report

// Trends builds a per-agent score history across the given dates (ascending).
// The loader returns each day's raw agent files, meta excluded; files that
// fail to load or parse simply contribute no point for that day. An optional
// agent filter restricts which files are normalized at all.
func Trends(dates []string, agentFilter []string, load func(date string) []AgentFile) TrendSeries {
	series := TrendSeries{Dates: []string{}, Data: map[string][]TrendPoint{}}

	allowed := map[string]struct{}{}
	for _, a := range agentFilter {
		allowed[a] = struct{}{}
	}

	for _, date := range dates {
		series.Dates = append(series.Dates, date)
		for _, file := range load(date) {
			if len(allowed) > 0 {
				if _, ok := allowed[file.Agent]; !ok {
					continue
				}
			}
			n := Normalize(file.Agent, file.Raw)
			series.Data[file.Agent] = append(series.Data[file.Agent], TrendPoint{
				Date:   date,
				Score:  n.Score,
				Status: n.Status,
			})
		}
	}
	return series
}

// WindowDates keeps the n most recent dates, preserving ascending order.
func WindowDates(dates []string, n int) []string {
	if n > 0 && len(dates) > n {
		return dates[len(dates)-n:]
	}
	return dates
}
