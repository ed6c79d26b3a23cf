// Package store reads the date-directory tree of agent reports. The tree is
// written by an external audit job and is strictly read-only here; every
// accessor re-reads the disk so responses always reflect the latest files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/auditdash/auditdash/internal/utils"
	"github.com/auditdash/auditdash/pkg/report"
)

var dateDirRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dates lists all valid date directories in ascending order. Unreadable data
// dirs yield an empty list, never an error.
func (s *Store) Dates() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		utils.Log.Debugf("read data dir %s: %v", s.dir, err)
		return []string{}
	}
	dates := []string{}
	for _, e := range entries {
		if e.IsDir() && dateDirRe.MatchString(e.Name()) {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates
}

// Reports loads and normalizes every agent file for one date. Files that are
// not valid JSON are skipped; a missing directory yields an empty slice.
func (s *Store) Reports(date string) []report.NormalizedReport {
	reports := []report.NormalizedReport{}
	for _, f := range s.rawFiles(date, false) {
		reports = append(reports, report.Normalize(f.Agent, f.Raw))
	}
	return reports
}

// Report loads a single agent's normalized report. A missing file surfaces
// as os.ErrNotExist; malformed JSON is an error here (single-file reads do
// not degrade silently).
func (s *Store) Report(date, agent string) (report.NormalizedReport, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, date, agent+".json"))
	if err != nil {
		return report.NormalizedReport{}, err
	}
	if !json.Valid(raw) {
		return report.NormalizedReport{}, fmt.Errorf("parse %s/%s.json: invalid JSON", date, agent)
	}
	return report.Normalize(agent, raw), nil
}

// Markdown returns the raw Markdown companion of one agent report.
func (s *Store) Markdown(date, agent string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, date, agent+".md"))
}

// RawReports returns a date's raw agent files with meta excluded, for the
// timeline and trend folds.
func (s *Store) RawReports(date string) []report.AgentFile {
	return s.rawFiles(date, true)
}

func (s *Store) rawFiles(date string, excludeMeta bool) []report.AgentFile {
	dir := filepath.Join(s.dir, date)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []report.AgentFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		agent := strings.TrimSuffix(name, ".json")
		if excludeMeta && agent == "meta" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			utils.Log.Debugf("read %s/%s: %v", date, name, err)
			continue
		}
		if !json.Valid(raw) {
			utils.Log.Warnf("skipping malformed report %s/%s", date, name)
			continue
		}
		files = append(files, report.AgentFile{Agent: agent, Raw: raw})
	}
	return files
}
