package report

import "encoding/json"

// Status is the normalized health state of a single agent report.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusUnknown  Status = "unknown"
)

// NormalizedReport is the common shape every agent report is reduced to.
// Kind-specific fields (findings, repos, alerts, ...) live in Extra and are
// merged into the top level when marshaled, next to agent/status/score/summary.
type NormalizedReport struct {
	Agent   string
	Status  Status // empty for unrecognized agent kinds
	Score   *int
	Summary string
	Raw     json.RawMessage
	Extra   map[string]any

	// The digest agent reports an explicit null score; meta and unknown
	// kinds omit the score and summary keys entirely.
	HasScore   bool
	HasSummary bool
}

func (r NormalizedReport) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+5)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["agent"] = r.Agent
	if len(r.Raw) > 0 {
		out["raw"] = r.Raw
	} else {
		out["raw"] = nil
	}
	if r.Status != "" {
		out["status"] = r.Status
	}
	if r.HasScore {
		if r.Score != nil {
			out["score"] = *r.Score
		} else {
			out["score"] = nil
		}
	}
	if r.HasSummary {
		out["summary"] = r.Summary
	}
	return json.Marshal(out)
}

// AgentFile is one raw on-disk report: the agent name (file basename) plus
// the unparsed JSON payload.
type AgentFile struct {
	Agent string
	Raw   []byte
}

// Finding is a single reported issue extracted from any agent's raw shape.
type Finding struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	Severity       string `json:"severity"`
	Repo           string `json:"repo,omitempty"`
	File           string `json:"file,omitempty"`
	Line           int    `json:"line,omitempty"`
	Description    string `json:"description,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
	CWE            string `json:"cwe,omitempty"`
	Agent          string `json:"agent,omitempty"`
}

// TimelineFinding aggregates every occurrence of a finding (deduplicated by
// normalized title) across all audit days.
type TimelineFinding struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Repo        string `json:"repo"`
	Agent       string `json:"agent"`
	FirstSeen   string `json:"firstSeen"`
	LastSeen    string `json:"lastSeen"`
	Occurrences int    `json:"occurrences"`
	Status      string `json:"status"` // new | recurring | resolved
}

// ScoreChange is one agent's score movement between two audit days.
type ScoreChange struct {
	Agent  string `json:"agent"`
	Before *int   `json:"before"`
	After  *int   `json:"after"`
	Delta  *int   `json:"delta"`
}

// DiffResult compares a current day against an earlier baseline.
type DiffResult struct {
	Date1            string        `json:"date1"`
	Date2            string        `json:"date2"`
	ScoreChanges     []ScoreChange `json:"scoreChanges"`
	NewFindings      []Finding     `json:"newFindings"`
	ResolvedFindings []Finding     `json:"resolvedFindings"`
}

// TrendPoint is one agent's score on one day.
type TrendPoint struct {
	Date   string `json:"date"`
	Score  *int   `json:"score"`
	Status Status `json:"status,omitempty"`
}

// TrendSeries maps agent names to their per-day score history, oldest first.
type TrendSeries struct {
	Dates []string                `json:"dates"`
	Data  map[string][]TrendPoint `json:"data"`
}

func intp(v int) *int { return &v }
