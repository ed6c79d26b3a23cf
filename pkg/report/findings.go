package report

import "github.com/tidwall/gjson"

// Collect flattens every finding out of a day's reports, tagging each with
// its source agent. Three raw shapes are understood and may coexist:
// a findings list, a keyed object of findings lists, and a roadmap-style
// priorities list (mapped to synthetic findings).
func Collect(reports []NormalizedReport) []Finding {
	var out []Finding
	for _, r := range reports {
		out = append(out, collectRaw(r.Agent, parseRaw(r.Raw))...)
	}
	return out
}

func collectRaw(agent string, doc gjson.Result) []Finding {
	var out []Finding

	findings := doc.Get("findings")
	if findings.IsArray() {
		for _, f := range findings.Array() {
			out = append(out, findingFrom(f, agent))
		}
	} else if findings.IsObject() {
		findings.ForEach(func(_, group gjson.Result) bool {
			if group.IsArray() {
				for _, f := range group.Array() {
					out = append(out, findingFrom(f, agent))
				}
			}
			return true
		})
	}

	priorities := doc.Get("priorities")
	if priorities.IsArray() {
		for _, p := range priorities.Array() {
			sev := p.Get("severity").String()
			if sev == "" {
				sev = "medium"
			}
			out = append(out, Finding{
				Title:    p.Get("title").String(),
				Severity: sev,
				Repo:     p.Get("repo").String(),
				Agent:    agent,
			})
		}
	}

	return out
}

// collectWithRepoFindings is the timeline variant: on top of the common
// shapes it flattens repos[].findings[], tagging each with the repo name.
func collectWithRepoFindings(agent string, raw []byte) []Finding {
	doc := parseRaw(raw)
	out := collectRaw(agent, doc)

	repos := doc.Get("repos")
	if repos.IsArray() {
		for _, repo := range repos.Array() {
			name := repo.Get("name").String()
			if name == "" {
				name = repo.Get("repo").String()
			}
			nested := repo.Get("findings")
			if !nested.IsArray() {
				continue
			}
			for _, f := range nested.Array() {
				finding := findingFrom(f, agent)
				finding.Repo = name
				out = append(out, finding)
			}
		}
	}
	return out
}

func findingFrom(f gjson.Result, agent string) Finding {
	sev := f.Get("severity").String()
	if sev == "" {
		sev = "info"
	}
	return Finding{
		ID:             f.Get("id").String(),
		Title:          f.Get("title").String(),
		Severity:       sev,
		Repo:           f.Get("repo").String(),
		File:           f.Get("file").String(),
		Line:           int(f.Get("line").Int()),
		Description:    f.Get("description").String(),
		Recommendation: f.Get("recommendation").String(),
		CWE:            f.Get("cwe").String(),
		Agent:          agent,
	}
}

func parseRaw(raw []byte) gjson.Result {
	return gjson.ParseBytes(raw)
}
