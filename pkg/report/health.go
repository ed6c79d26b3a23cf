package report

import "math"

// HealthScore is the rounded mean of all scored agents for one day. The meta
// and digest entries never count, nor does any report without a score.
// Returns nil when nothing is left to average.
func HealthScore(reports []NormalizedReport) *int {
	sum, n := 0, 0
	for _, r := range reports {
		if r.Agent == "meta" || r.Agent == "digest" || r.Score == nil {
			continue
		}
		sum += *r.Score
		n++
	}
	if n == 0 {
		return nil
	}
	return intp(int(math.Round(float64(sum) / float64(n))))
}

// GradeFromScore maps a 0-100 score to a letter grade.
func GradeFromScore(score *int) *string {
	if score == nil {
		return nil
	}
	var g string
	switch {
	case *score >= 90:
		g = "A"
	case *score >= 80:
		g = "B"
	case *score >= 70:
		g = "C"
	case *score >= 60:
		g = "D"
	default:
		g = "F"
	}
	return &g
}

// FindingCounts is the security agent's severity breakdown.
type FindingCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// SecurityFindingCounts pulls the severity counts out of the day's security
// report, zero-valued when the agent is absent.
func SecurityFindingCounts(reports []NormalizedReport) FindingCounts {
	for _, r := range reports {
		if r.Agent != "security" {
			continue
		}
		counts := r.extraJSON("findingCounts")
		return FindingCounts{
			Critical: int(counts.Get("critical").Int()),
			High:     int(counts.Get("high").Int()),
			Medium:   int(counts.Get("medium").Int()),
			Low:      int(counts.Get("low").Int()),
		}
	}
	return FindingCounts{}
}

// MetaInfo is run metadata carried by the meta agent.
type MetaInfo struct {
	LastRunTime     *string  `json:"lastRunTime"`
	LastRunDuration *float64 `json:"lastRunDuration"`
}

// RunMetaInfo extracts the audit run's end time and duration from the meta
// agent's raw payload.
func RunMetaInfo(reports []NormalizedReport) MetaInfo {
	var info MetaInfo
	for _, r := range reports {
		if r.Agent != "meta" {
			continue
		}
		p := parseRaw(r.Raw)
		if v := p.Get("endTime"); v.Exists() {
			s := v.String()
			info.LastRunTime = &s
		}
		if v := p.Get("durationSeconds"); v.Exists() {
			d := v.Float()
			info.LastRunDuration = &d
		}
		break
	}
	return info
}
