package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/auditdash/auditdash/internal/utils"
	"github.com/auditdash/auditdash/pkg/report"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Warnf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dates := s.store.Dates()
	var latest string
	reports := []report.NormalizedReport{}
	if len(dates) > 0 {
		latest = dates[len(dates)-1]
		reports = s.store.Reports(latest)
	}
	meta := report.RunMetaInfo(reports)

	agentCount := 0
	for _, rep := range reports {
		if rep.Agent != "meta" && rep.Agent != "digest" {
			agentCount++
		}
	}

	writeJSON(w, map[string]any{
		"status":          "ok",
		"version":         s.version,
		"buildDate":       nullable(s.buildDate),
		"lastAuditDate":   nullable(latest),
		"lastRunTime":     meta.LastRunTime,
		"lastRunDuration": meta.LastRunDuration,
		"healthScore":     report.HealthScore(reports),
		"agentCount":      agentCount,
		"findingCounts":   report.SecurityFindingCounts(reports),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"version":   s.version,
		"buildDate": nullable(s.buildDate),
	})
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	dates := s.store.Dates()
	// Descending for the date picker.
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	writeJSON(w, dates)
}

type agentSummary struct {
	Name   string        `json:"name"`
	Score  *int          `json:"score"`
	Grade  *string       `json:"grade"`
	Status report.Status `json:"status"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	dates := s.store.Dates()
	if len(dates) == 0 {
		writeJSON(w, map[string]string{"error": "No data"})
		return
	}
	latest := dates[len(dates)-1]
	reports := s.store.Reports(latest)
	healthScore := report.HealthScore(reports)
	meta := report.RunMetaInfo(reports)

	var delta *int
	if len(dates) >= 2 {
		prevScore := report.HealthScore(s.store.Reports(dates[len(dates)-2]))
		if healthScore != nil && prevScore != nil {
			d := *healthScore - *prevScore
			delta = &d
		}
	}

	agents := []agentSummary{}
	for _, rep := range reports {
		if rep.Agent == "meta" || rep.Agent == "digest" {
			continue
		}
		grade := report.GradeFromScore(rep.Score)
		if g := rep.Grade(); g != "" {
			grade = &g
		}
		agents = append(agents, agentSummary{
			Name:   rep.Agent,
			Score:  rep.Score,
			Grade:  grade,
			Status: rep.Status,
		})
	}

	writeJSON(w, map[string]any{
		"date":            latest,
		"healthScore":     healthScore,
		"delta":           delta,
		"agents":          agents,
		"findingCounts":   report.SecurityFindingCounts(reports),
		"topPriorities":   topPriorities(reports),
		"lastRunDuration": meta.LastRunDuration,
		"lastRunTime":     meta.LastRunTime,
	})
}

// topPriorities prefers the digest agent's list, falling back to the first
// five roadmap priority titles.
func topPriorities(reports []report.NormalizedReport) any {
	var roadmap *report.NormalizedReport
	for i, rep := range reports {
		switch rep.Agent {
		case "digest":
			return rep.Extra["topPriorities"]
		case "roadmap":
			roadmap = &reports[i]
		}
	}
	if roadmap != nil {
		return roadmap.PriorityTitles(5)
	}
	return []string{}
}

func (s *Server) handleFindings(w http.ResponseWriter, r *http.Request) {
	dates := s.store.Dates()
	timeline := report.BuildTimeline(dates, s.store.RawReports)

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := report.TimelineFilter{
		Status:   q.Get("status"),
		Severity: q.Get("severity"),
		Repo:     q.Get("repo"),
		Agent:    q.Get("agent"),
		Sort:     q.Get("sort"),
		Limit:    limit,
	}
	writeJSON(w, report.FilterTimeline(timeline, filter))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dates := s.store.Dates()
	if days, err := strconv.Atoi(q.Get("days")); err == nil {
		dates = report.WindowDates(dates, days)
	}

	var agentFilter []string
	if agent := q.Get("agent"); agent != "" {
		agentFilter = []string{agent}
	} else if agents := q.Get("agents"); agents != "" {
		agentFilter = strings.Split(agents, ",")
	}

	writeJSON(w, report.Trends(dates, agentFilter, s.store.RawReports))
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	date1 := r.PathValue("date1")
	date2 := r.PathValue("date2")
	if date2 == "" {
		dates := s.store.Dates()
		for i, d := range dates {
			if d == date1 && i > 0 {
				date2 = dates[i-1]
				break
			}
		}
	}
	if date2 == "" {
		writeError(w, http.StatusBadRequest, "No previous date available")
		return
	}
	writeJSON(w, report.Diff(date1, date2, s.store.Reports(date1), s.store.Reports(date2)))
}

func (s *Server) handleReportsForDate(w http.ResponseWriter, r *http.Request) {
	reports := s.store.Reports(r.PathValue("date"))
	if len(reports) == 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, reports)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.Report(r.PathValue("date"), r.PathValue("agent"))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	md, err := s.store.Markdown(r.PathValue("date"), r.PathValue("agent"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(md)
}
