package report

import (
	"encoding/json"
	"strconv"
	"testing"
)

func TestNormalizeSecurityScore(t *testing.T) {
	tests := []struct {
		name                   string
		crit, high, med, low   int
		wantScore              int
		wantStatus             Status
	}{
		{"clean run", 0, 0, 0, 0, 100, StatusOK},
		{"high only", 0, 1, 0, 0, 90, StatusWarning},
		{"one critical two medium", 1, 0, 2, 0, 65, StatusCritical},
		{"mixed", 1, 2, 3, 4, 32, StatusCritical},
		{"floors at zero", 4, 5, 0, 0, 0, StatusCritical},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			raw := []byte(`{"summary":{"critical":` + itoa(tc.crit) +
				`,"high":` + itoa(tc.high) +
				`,"medium":` + itoa(tc.med) +
				`,"low":` + itoa(tc.low) + `}}`)
			rep := Normalize("security", raw)
			if rep.Score == nil || *rep.Score != tc.wantScore {
				t.Fatalf("score = %v, want %d", rep.Score, tc.wantScore)
			}
			if rep.Status != tc.wantStatus {
				t.Fatalf("status = %s, want %s", rep.Status, tc.wantStatus)
			}
		})
	}
}

func TestNormalizeSecuritySummary(t *testing.T) {
	raw := []byte(`{"summary":{"total":7,"critical":1,"high":2,"medium":3,"low":1}}`)
	rep := Normalize("security", raw)
	want := "7 findings: 1C / 2H / 3M / 1L"
	if rep.Summary != want {
		t.Fatalf("summary = %q, want %q", rep.Summary, want)
	}
}

func TestNormalizeQualityThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  Status
	}{
		{92, StatusOK},
		{85, StatusOK},
		{84, StatusWarning},
		{70, StatusWarning},
		{69, StatusCritical},
	}
	for _, tc := range tests {
		rep := Normalize("quality", []byte(`{"score":`+itoa(tc.score)+`,"grade":"B"}`))
		if rep.Status != tc.want {
			t.Fatalf("score %d: status = %s, want %s", tc.score, rep.Status, tc.want)
		}
		if rep.Grade() != "B" {
			t.Fatalf("grade not passed through: %q", rep.Grade())
		}
	}
}

func TestNormalizeInfra(t *testing.T) {
	raw := []byte(`{
		"ci": {"site": {"successRate": 0.9}, "api": {"successRate": 0.7}},
		"containers": [{"state":"running"},{"state":"running"}],
		"alerts": []
	}`)
	rep := Normalize("infra", raw)
	// avg CI 0.8 * 70 = 56, all containers running = +30
	if rep.Score == nil || *rep.Score != 86 {
		t.Fatalf("score = %v, want 86", rep.Score)
	}
	if rep.Status != StatusOK {
		t.Fatalf("status = %s, want ok", rep.Status)
	}
	if rep.Summary != "2/2 containers · CI avg 80%" {
		t.Fatalf("summary = %q", rep.Summary)
	}
}

func TestNormalizeInfraCriticalAlertWins(t *testing.T) {
	raw := []byte(`{
		"ci": {"site": {"successRate": 1}},
		"containers": [{"state":"running"}],
		"alerts": [{"severity":"critical"}]
	}`)
	if rep := Normalize("infra", raw); rep.Status != StatusCritical {
		t.Fatalf("status = %s, want critical", rep.Status)
	}
}

func TestNormalizeInfraNoPipelines(t *testing.T) {
	rep := Normalize("infra", []byte(`{"containers":[{"state":"stopped"}]}`))
	if rep.Score == nil || *rep.Score != 0 {
		t.Fatalf("score = %v, want 0", rep.Score)
	}
	if rep.Status != StatusWarning {
		t.Fatalf("status = %s, want warning", rep.Status)
	}
}

func TestNormalizeDependencies(t *testing.T) {
	raw := []byte(`{"summary":{"totalVulnerabilities":8,"critical":1,"high":3,"moderate":4}}`)
	rep := Normalize("dependencies", raw)
	if rep.Score == nil || *rep.Score != 65 {
		t.Fatalf("score = %v, want 65", rep.Score)
	}
	if rep.Status != StatusCritical {
		t.Fatalf("status = %s, want critical", rep.Status)
	}
	if rep.Summary != "8 vulns: 1C / 3H / 4M" {
		t.Fatalf("summary = %q", rep.Summary)
	}
}

func TestNormalizeLighthouse(t *testing.T) {
	raw := []byte(`{"sites":{
		"a": {"scores": {"performance": 90}},
		"b": {"scores": {"performance": 71}},
		"c": {"error": "timeout"}
	}}`)
	rep := Normalize("lighthouse", raw)
	if rep.Score == nil || *rep.Score != 81 {
		t.Fatalf("score = %v, want 81 (sites without scores excluded)", rep.Score)
	}
	if rep.Status != StatusOK {
		t.Fatalf("status = %s, want ok", rep.Status)
	}
}

func TestNormalizeDigestNeverScored(t *testing.T) {
	rep := Normalize("digest", []byte(`{"healthScores":{"repo-a":95},"topPriorities":["fix auth"]}`))
	if !rep.HasScore || rep.Score != nil {
		t.Fatalf("digest must carry an explicit null score, got %+v", rep)
	}
	if rep.Status != StatusOK {
		t.Fatalf("status = %s, want ok", rep.Status)
	}
}

func TestNormalizeMetaAndUnknown(t *testing.T) {
	meta := Normalize("meta", []byte(`{"endTime":"2025-06-01T04:00:00Z"}`))
	if meta.Status != StatusOK || meta.HasScore {
		t.Fatalf("meta = %+v", meta)
	}

	unknown := Normalize("mystery", []byte(`{"foo":1}`))
	if unknown.Status != "" || unknown.HasScore || unknown.HasSummary {
		t.Fatalf("unknown kind must not derive fields: %+v", unknown)
	}

	out, err := json.Marshal(unknown)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["score"]; ok {
		t.Fatal("unknown kind must not marshal a score key")
	}
	if decoded["agent"] != "mystery" {
		t.Fatalf("agent = %v", decoded["agent"])
	}
}

func TestNormalizedReportJSONShape(t *testing.T) {
	raw := []byte(`{"summary":{"total":1,"critical":0,"high":1,"medium":0,"low":0},"findings":[{"title":"weak cipher"}]}`)
	out, err := json.Marshal(Normalize("security", raw))
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["score"] != float64(90) {
		t.Fatalf("score = %v", decoded["score"])
	}
	// Kind-specific fields sit at the top level next to the common ones.
	findings, ok := decoded["findings"].([]any)
	if !ok || len(findings) != 1 {
		t.Fatalf("findings = %v", decoded["findings"])
	}
	if _, ok := decoded["raw"].(map[string]any); !ok {
		t.Fatalf("raw = %v", decoded["raw"])
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
