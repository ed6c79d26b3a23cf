package report

import (
	"fmt"
	"testing"
)

func TestTrends(t *testing.T) {
	days := map[string][]AgentFile{
		"2025-06-01": {
			{Agent: "quality", Raw: []byte(`{"score":80}`)},
			{Agent: "digest", Raw: []byte(`{}`)},
		},
		"2025-06-02": {
			{Agent: "quality", Raw: []byte(`{"score":90}`)},
		},
	}
	series := Trends([]string{"2025-06-01", "2025-06-02"}, nil, dayLoader(days))

	if len(series.Dates) != 2 {
		t.Fatalf("dates = %v", series.Dates)
	}
	q := series.Data["quality"]
	if len(q) != 2 || *q[0].Score != 80 || *q[1].Score != 90 {
		t.Fatalf("quality series = %+v", q)
	}
	if q[0].Date != "2025-06-01" {
		t.Fatalf("series must be oldest first: %+v", q)
	}
	// digest stays in the raw series, with its null score.
	d := series.Data["digest"]
	if len(d) != 1 || d[0].Score != nil {
		t.Fatalf("digest series = %+v", d)
	}
}

func TestTrendsAgentFilter(t *testing.T) {
	days := map[string][]AgentFile{
		"2025-06-01": {
			{Agent: "quality", Raw: []byte(`{"score":80}`)},
			{Agent: "security", Raw: []byte(`{"summary":{}}`)},
		},
	}
	series := Trends([]string{"2025-06-01"}, []string{"security"}, dayLoader(days))
	if _, ok := series.Data["quality"]; ok {
		t.Fatal("filtered agent leaked into the series")
	}
	if _, ok := series.Data["security"]; !ok {
		t.Fatal("requested agent missing from the series")
	}
}

func TestTrendsMissingDayStillListed(t *testing.T) {
	series := Trends([]string{"2025-06-01"}, nil, func(string) []AgentFile { return nil })
	if len(series.Dates) != 1 {
		t.Fatalf("dates = %v; a day with no readable files is still listed", series.Dates)
	}
	if len(series.Data) != 0 {
		t.Fatalf("data = %v", series.Data)
	}
}

func TestWindowDates(t *testing.T) {
	var dates []string
	for i := 1; i <= 30; i++ {
		dates = append(dates, fmt.Sprintf("2025-06-%02d", i))
	}

	got := WindowDates(dates, 7)
	if len(got) != 7 {
		t.Fatalf("got %d dates, want 7", len(got))
	}
	if got[0] != "2025-06-24" || got[6] != "2025-06-30" {
		t.Fatalf("window must keep the most recent dates ascending: %v", got)
	}

	if got := WindowDates(dates, 0); len(got) != 30 {
		t.Fatalf("0 disables the window, got %d", len(got))
	}
	if got := WindowDates(dates, 40); len(got) != 30 {
		t.Fatalf("oversized window keeps everything, got %d", len(got))
	}
}
