package report

import "strings"

// diffAgents is the fixed agent set reported in every diff, present or not.
var diffAgents = []string{
	"security", "quality", "infra", "dependencies", "lighthouse", "consistency", "roadmap",
}

// Diff compares the current day's reports against an earlier baseline:
// per-agent score movement plus findings that appeared or disappeared.
// Findings are matched by lower-cased title only.
func Diff(date1, date2 string, current, baseline []NormalizedReport) DiffResult {
	currByAgent := reportsByAgent(current)
	baseByAgent := reportsByAgent(baseline)

	changes := make([]ScoreChange, 0, len(diffAgents))
	for _, agent := range diffAgents {
		c := ScoreChange{Agent: agent}
		if r, ok := baseByAgent[agent]; ok {
			c.Before = r.Score
		}
		if r, ok := currByAgent[agent]; ok {
			c.After = r.Score
		}
		if c.Before != nil && c.After != nil {
			c.Delta = intp(*c.After - *c.Before)
		}
		changes = append(changes, c)
	}

	currFindings := Collect(current)
	baseFindings := Collect(baseline)
	currTitles := titleSet(currFindings)
	baseTitles := titleSet(baseFindings)

	newFindings := []Finding{}
	for _, f := range currFindings {
		if _, ok := baseTitles[strings.ToLower(f.Title)]; !ok {
			newFindings = append(newFindings, f)
		}
	}
	resolvedFindings := []Finding{}
	for _, f := range baseFindings {
		if _, ok := currTitles[strings.ToLower(f.Title)]; !ok {
			resolvedFindings = append(resolvedFindings, f)
		}
	}

	return DiffResult{
		Date1:            date1,
		Date2:            date2,
		ScoreChanges:     changes,
		NewFindings:      newFindings,
		ResolvedFindings: resolvedFindings,
	}
}

func reportsByAgent(reports []NormalizedReport) map[string]NormalizedReport {
	m := make(map[string]NormalizedReport, len(reports))
	for _, r := range reports {
		m[r.Agent] = r
	}
	return m
}

func titleSet(findings []Finding) map[string]struct{} {
	m := make(map[string]struct{}, len(findings))
	for _, f := range findings {
		m[strings.ToLower(f.Title)] = struct{}{}
	}
	return m
}
