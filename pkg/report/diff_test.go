package report

import "testing"

func TestDiffSelfIsNeutral(t *testing.T) {
	reports := []NormalizedReport{
		Normalize("security", []byte(`{"summary":{"critical":0,"high":1},"findings":[{"title":"Open port"}]}`)),
		Normalize("quality", []byte(`{"score":88}`)),
	}

	d := Diff("2025-06-02", "2025-06-02", reports, reports)
	for _, c := range d.ScoreChanges {
		if c.Delta != nil && *c.Delta != 0 {
			t.Fatalf("agent %s: delta = %d, want 0", c.Agent, *c.Delta)
		}
	}
	if len(d.NewFindings) != 0 || len(d.ResolvedFindings) != 0 {
		t.Fatalf("self diff must have no finding churn: %+v", d)
	}
}

func TestDiffScoreChanges(t *testing.T) {
	// Day 1 (current): one critical, two medium. Day 2 (baseline): one high.
	current := []NormalizedReport{
		Normalize("security", []byte(`{"summary":{"critical":1,"high":0,"medium":2,"low":0}}`)),
	}
	baseline := []NormalizedReport{
		Normalize("security", []byte(`{"summary":{"critical":0,"high":1,"medium":0,"low":0}}`)),
	}

	d := Diff("2025-06-02", "2025-06-01", current, baseline)

	var sec ScoreChange
	for _, c := range d.ScoreChanges {
		if c.Agent == "security" {
			sec = c
		}
	}
	if sec.Before == nil || *sec.Before != 90 {
		t.Fatalf("before = %v, want 90", sec.Before)
	}
	if sec.After == nil || *sec.After != 65 {
		t.Fatalf("after = %v, want 65", sec.After)
	}
	if sec.Delta == nil || *sec.Delta != -25 {
		t.Fatalf("delta = %v, want -25", sec.Delta)
	}
}

func TestDiffFixedAgentSet(t *testing.T) {
	d := Diff("2025-06-02", "2025-06-01", nil, nil)
	if len(d.ScoreChanges) != 7 {
		t.Fatalf("got %d score changes, want all 7 agents", len(d.ScoreChanges))
	}
	for _, c := range d.ScoreChanges {
		if c.Before != nil || c.After != nil || c.Delta != nil {
			t.Fatalf("absent agent %s must have null scores: %+v", c.Agent, c)
		}
	}
}

func TestDiffFindingChurn(t *testing.T) {
	current := []NormalizedReport{
		Normalize("security", []byte(`{"findings":[{"title":"Kept"},{"title":"Appeared"}]}`)),
	}
	baseline := []NormalizedReport{
		Normalize("security", []byte(`{"findings":[{"title":"kept"},{"title":"Went away"}]}`)),
	}

	d := Diff("2025-06-02", "2025-06-01", current, baseline)
	if len(d.NewFindings) != 1 || d.NewFindings[0].Title != "Appeared" {
		t.Fatalf("newFindings = %+v", d.NewFindings)
	}
	if len(d.ResolvedFindings) != 1 || d.ResolvedFindings[0].Title != "Went away" {
		t.Fatalf("resolvedFindings = %+v", d.ResolvedFindings)
	}
}
