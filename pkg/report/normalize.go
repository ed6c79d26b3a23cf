package report

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/auditdash/auditdash/internal/utils"
	"github.com/tidwall/gjson"
)

// Normalize reduces one agent's raw JSON report to the common shape. It never
// fails: anything that goes wrong inside a kind-specific branch degrades the
// report to status "unknown" with a null score, keeping the raw payload.
func Normalize(agent string, raw []byte) (rep NormalizedReport) {
	rep = NormalizedReport{Agent: agent, Raw: json.RawMessage(raw)}

	defer func() {
		if r := recover(); r != nil {
			utils.Log.Warnf("normalize error for %s: %v", agent, r)
			rep = NormalizedReport{
				Agent:      agent,
				Raw:        json.RawMessage(raw),
				Status:     StatusUnknown,
				HasScore:   true,
				HasSummary: true,
				Summary:    "Error normalizing",
			}
		}
	}()

	switch agent {
	case "security":
		return normalizeSecurity(rep, raw)
	case "quality":
		return normalizeQuality(rep, raw)
	case "infra":
		return normalizeInfra(rep, raw)
	case "dependencies":
		return normalizeDependencies(rep, raw)
	case "lighthouse":
		return normalizeLighthouse(rep, raw)
	case "consistency":
		return normalizeConsistency(rep, raw)
	case "roadmap":
		return normalizeRoadmap(rep, raw)
	case "digest":
		rep.Status = StatusOK
		rep.HasScore = true
		rep.HasSummary = true
		rep.Extra = map[string]any{
			"healthScores":  rawField(raw, "healthScores", "{}"),
			"topPriorities": rawField(raw, "topPriorities", "[]"),
		}
		return rep
	case "meta":
		rep.Status = StatusOK
		return rep
	default:
		// Unrecognized agent kind: pass the raw payload through untouched.
		return rep
	}
}

func normalizeSecurity(rep NormalizedReport, raw []byte) NormalizedReport {
	s := gjson.GetBytes(raw, "summary")
	crit := int(s.Get("critical").Int())
	high := int(s.Get("high").Int())
	med := int(s.Get("medium").Int())
	low := int(s.Get("low").Int())
	total := int(s.Get("total").Int())

	rep.setScore(clampScore(100 - 25*crit - 10*high - 5*med - 2*low))
	switch {
	case crit > 0:
		rep.Status = StatusCritical
	case high > 0:
		rep.Status = StatusWarning
	default:
		rep.Status = StatusOK
	}
	rep.setSummary(fmt.Sprintf("%d findings: %dC / %dH / %dM / %dL", total, crit, high, med, low))
	rep.Extra = map[string]any{
		"findings":      rawField(raw, "findings", "[]"),
		"findingCounts": rawField(raw, "summary", "{}"),
	}
	return rep
}

func normalizeQuality(rep NormalizedReport, raw []byte) NormalizedReport {
	score := roundInt(gjson.GetBytes(raw, "score").Float())
	rep.setScore(score)
	rep.Status = thresholdStatus(score, 85, 70)
	rep.setSummary(gjson.GetBytes(raw, "summary").String())
	rep.Extra = map[string]any{
		"repos": rawField(raw, "repos", "[]"),
	}
	if grade := gjson.GetBytes(raw, "grade"); grade.Exists() {
		rep.Extra["grade"] = json.RawMessage(grade.Raw)
	}
	return rep
}

func normalizeInfra(rep NormalizedReport, raw []byte) NormalizedReport {
	var ciSum float64
	ciCount := 0
	gjson.GetBytes(raw, "ci").ForEach(func(_, v gjson.Result) bool {
		ciSum += v.Get("successRate").Float()
		ciCount++
		return true
	})
	avgCI := 0.0
	if ciCount > 0 {
		avgCI = ciSum / float64(ciCount)
	}

	containers := gjson.GetBytes(raw, "containers").Array()
	running := 0
	for _, c := range containers {
		if c.Get("state").String() == "running" {
			running++
		}
	}
	bonus := 0.0
	if len(containers) > 0 && running == len(containers) {
		bonus = 30
	}
	rep.setScore(roundInt(avgCI*70 + bonus))

	hasCritAlert := false
	for _, a := range gjson.GetBytes(raw, "alerts").Array() {
		if a.Get("severity").String() == "critical" {
			hasCritAlert = true
			break
		}
	}
	switch {
	case hasCritAlert:
		rep.Status = StatusCritical
	case avgCI < 0.7:
		rep.Status = StatusWarning
	default:
		rep.Status = StatusOK
	}
	rep.setSummary(fmt.Sprintf("%d/%d containers · CI avg %d%%", running, len(containers), roundInt(avgCI*100)))

	rep.Extra = map[string]any{
		"containers": rawField(raw, "containers", "[]"),
		"alerts":     rawField(raw, "alerts", "[]"),
	}
	if ci := gjson.GetBytes(raw, "ci"); ci.Exists() {
		rep.Extra["ci"] = json.RawMessage(ci.Raw)
	}
	if disk := gjson.GetBytes(raw, "disk"); disk.Exists() {
		rep.Extra["disk"] = json.RawMessage(disk.Raw)
	}
	return rep
}

func normalizeDependencies(rep NormalizedReport, raw []byte) NormalizedReport {
	s := gjson.GetBytes(raw, "summary")
	crit := int(s.Get("critical").Int())
	high := int(s.Get("high").Int())
	moderate := int(s.Get("moderate").Int())
	total := int(s.Get("totalVulnerabilities").Int())

	rep.setScore(clampScore(100 - 25*crit - 2*high - moderate))
	switch {
	case crit > 0:
		rep.Status = StatusCritical
	case high > 0:
		rep.Status = StatusWarning
	default:
		rep.Status = StatusOK
	}
	rep.setSummary(fmt.Sprintf("%d vulns: %dC / %dH / %dM", total, crit, high, moderate))
	rep.Extra = map[string]any{
		"repos":      rawField(raw, "repos", "{}"),
		"depSummary": rawField(raw, "summary", "{}"),
	}
	return rep
}

func normalizeLighthouse(rep NormalizedReport, raw []byte) NormalizedReport {
	var sum float64
	count := 0
	gjson.GetBytes(raw, "sites").ForEach(func(_, v gjson.Result) bool {
		if v.Get("scores").Exists() {
			sum += v.Get("scores.performance").Float()
			count++
		}
		return true
	})
	avg := 0
	if count > 0 {
		avg = roundInt(sum / float64(count))
	}
	rep.setScore(avg)
	rep.Status = thresholdStatus(avg, 80, 50)
	rep.setSummary(fmt.Sprintf("Avg perf: %d", avg))
	rep.Extra = map[string]any{
		"sites": rawField(raw, "sites", "{}"),
	}
	return rep
}

func normalizeConsistency(rep NormalizedReport, raw []byte) NormalizedReport {
	score := roundInt(gjson.GetBytes(raw, "consistencyScore").Float())
	rep.setScore(score)
	rep.Status = thresholdStatus(score, 70, 50)
	rep.setSummary(gjson.GetBytes(raw, "summary").String())
	rep.Extra = map[string]any{
		"findings":        rawField(raw, "findings", "{}"),
		"recommendations": rawField(raw, "recommendations", "[]"),
	}
	return rep
}

func normalizeRoadmap(rep NormalizedReport, raw []byte) NormalizedReport {
	score := roundInt(gjson.GetBytes(raw, "portfolioHealth").Float())
	rep.setScore(score)
	rep.Status = thresholdStatus(score, 70, 50)
	rep.setSummary(fmt.Sprintf("Portfolio health: %d%%", score))
	rep.Extra = map[string]any{
		"healthScores": rawField(raw, "healthScores", "{}"),
		"priorities":   rawField(raw, "priorities", "[]"),
		"quickWins":    rawField(raw, "quickWins", "[]"),
	}
	return rep
}

func (r *NormalizedReport) setScore(v int) {
	r.HasScore = true
	r.Score = intp(v)
}

func (r *NormalizedReport) setSummary(s string) {
	r.HasSummary = true
	r.Summary = s
}

// extraJSON re-parses a passthrough Extra field for typed access.
func (r NormalizedReport) extraJSON(key string) gjson.Result {
	if v, ok := r.Extra[key].(json.RawMessage); ok {
		return gjson.ParseBytes(v)
	}
	return gjson.Result{}
}

// Grade returns the quality agent's letter grade, if it reported one.
func (r NormalizedReport) Grade() string {
	return r.extraJSON("grade").String()
}

// PriorityTitles returns up to n titles from a roadmap report's priorities.
func (r NormalizedReport) PriorityTitles(n int) []string {
	titles := []string{}
	r.extraJSON("priorities").ForEach(func(_, p gjson.Result) bool {
		if len(titles) >= n {
			return false
		}
		titles = append(titles, p.Get("title").String())
		return true
	})
	return titles
}

func thresholdStatus(score, okMin, warnMin int) Status {
	switch {
	case score >= okMin:
		return StatusOK
	case score >= warnMin:
		return StatusWarning
	default:
		return StatusCritical
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// rawField returns the verbatim JSON of a field, or def when it is absent.
func rawField(raw []byte, path, def string) json.RawMessage {
	if res := gjson.GetBytes(raw, path); res.Exists() {
		return json.RawMessage(res.Raw)
	}
	return json.RawMessage(def)
}
