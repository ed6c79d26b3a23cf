package report

import (
	"sort"
	"strings"
)

var severityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
	"info":     4,
}

func rankSeverity(sev string) int {
	if r, ok := severityRank[sev]; ok {
		return r
	}
	return 5
}

// BuildTimeline folds every day's findings into a deduplicated timeline.
// Dates must be in ascending order; the loader returns a day's raw agent
// files (meta excluded). Findings are matched across days by lower-cased
// title, a heuristic rather than a stable identity: a retitled finding shows
// up as resolved plus new, and a finding's severity stays whatever the first
// occurrence reported.
func BuildTimeline(dates []string, load func(date string) []AgentFile) []TimelineFinding {
	if len(dates) == 0 {
		return []TimelineFinding{}
	}
	latest := dates[len(dates)-1]

	byKey := make(map[string]*TimelineFinding)
	var order []string

	for _, date := range dates {
		for _, file := range load(date) {
			for _, f := range collectWithRepoFindings(file.Agent, file.Raw) {
				title := f.Title
				if title == "" {
					title = f.ID
				}
				if title == "" {
					title = "Unknown"
				}
				key := strings.TrimSpace(strings.ToLower(title))

				entry, seen := byKey[key]
				if !seen {
					id := f.ID
					if id == "" {
						if len(key) > 8 {
							id = key[:8]
						} else {
							id = key
						}
					}
					repo := f.Repo
					if repo == "" {
						repo = file.Agent
					}
					byKey[key] = &TimelineFinding{
						ID:          id,
						Title:       title,
						Severity:    f.Severity,
						Repo:        repo,
						Agent:       file.Agent,
						FirstSeen:   date,
						LastSeen:    date,
						Occurrences: 1,
					}
					order = append(order, key)
					continue
				}
				entry.LastSeen = date
				entry.Occurrences++
				if entry.Repo == "" && f.Repo != "" {
					entry.Repo = f.Repo
				}
			}
		}
	}

	out := make([]TimelineFinding, 0, len(order))
	for _, key := range order {
		entry := *byKey[key]
		switch {
		case entry.LastSeen != latest:
			entry.Status = "resolved"
		case entry.FirstSeen == latest:
			entry.Status = "new"
		default:
			entry.Status = "recurring"
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rankSeverity(out[i].Severity) < rankSeverity(out[j].Severity)
	})
	return out
}

// TimelineFilter narrows and orders a findings timeline for presentation.
type TimelineFilter struct {
	Status   string // exact match: new | recurring | resolved
	Severity string // exact match
	Repo     string // case-insensitive substring
	Agent    string // case-insensitive equality
	Sort     string // severity (default) | firstSeen | status
	Limit    int    // 0 = unlimited
}

var timelineStatusRank = map[string]int{
	"new":       0,
	"recurring": 1,
	"resolved":  2,
}

// FilterTimeline applies a TimelineFilter to an already-built timeline.
func FilterTimeline(findings []TimelineFinding, f TimelineFilter) []TimelineFinding {
	out := make([]TimelineFinding, 0, len(findings))
	for _, tf := range findings {
		if f.Status != "" && tf.Status != f.Status {
			continue
		}
		if f.Severity != "" && tf.Severity != f.Severity {
			continue
		}
		if f.Repo != "" && !strings.Contains(strings.ToLower(tf.Repo), strings.ToLower(f.Repo)) {
			continue
		}
		if f.Agent != "" && !strings.EqualFold(tf.Agent, f.Agent) {
			continue
		}
		out = append(out, tf)
	}

	switch f.Sort {
	case "firstSeen":
		sort.SliceStable(out, func(i, j int) bool { return out[i].FirstSeen < out[j].FirstSeen })
	case "status":
		sort.SliceStable(out, func(i, j int) bool {
			return statusRank(out[i].Status) < statusRank(out[j].Status)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return rankSeverity(out[i].Severity) < rankSeverity(out[j].Severity)
		})
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func statusRank(s string) int {
	if r, ok := timelineStatusRank[s]; ok {
		return r
	}
	return 3
}
