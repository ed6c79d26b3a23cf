package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFixture(t *testing.T, dir, date, name, content string) {
	t.Helper()
	day := filepath.Join(dir, date)
	if err := os.MkdirAll(day, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(day, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDates(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"2025-06-02", "2025-05-30", "2025-06-01"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Noise that must be ignored: wrong names, plain files.
	os.MkdirAll(filepath.Join(dir, "latest"), 0755)
	os.MkdirAll(filepath.Join(dir, "2025-6-1"), 0755)
	os.WriteFile(filepath.Join(dir, "2025-06-03"), []byte("a file, not a dir"), 0644)

	got := New(dir).Dates()
	want := []string{"2025-05-30", "2025-06-01", "2025-06-02"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDatesMissingDir(t *testing.T) {
	got := New(filepath.Join(t.TempDir(), "nope")).Dates()
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestReportsSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2025-06-01", "security.json", `{"summary":{"critical":1}}`)
	writeFixture(t, dir, "2025-06-01", "quality.json", `{not json at all`)
	writeFixture(t, dir, "2025-06-01", "notes.md", `# not a report`)

	reports := New(dir).Reports("2025-06-01")
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1 (malformed and non-json skipped)", len(reports))
	}
	if reports[0].Agent != "security" {
		t.Fatalf("agent = %s", reports[0].Agent)
	}
}

func TestReportsMissingDate(t *testing.T) {
	if got := New(t.TempDir()).Reports("2025-01-01"); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2025-06-01", "quality.json", `{"score":91,"grade":"A"}`)
	writeFixture(t, dir, "2025-06-01", "broken.json", `{{{`)
	st := New(dir)

	rep, err := st.Report("2025-06-01", "quality")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Score == nil || *rep.Score != 91 {
		t.Fatalf("score = %v", rep.Score)
	}

	if _, err := st.Report("2025-06-01", "missing"); !os.IsNotExist(err) {
		t.Fatalf("want IsNotExist, got %v", err)
	}
	if _, err := st.Report("2025-06-01", "broken"); err == nil || os.IsNotExist(err) {
		t.Fatalf("malformed single-file read must error, got %v", err)
	}
}

func TestRawReportsExcludesMeta(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2025-06-01", "security.json", `{"findings":[]}`)
	writeFixture(t, dir, "2025-06-01", "meta.json", `{"endTime":"x"}`)

	raw := New(dir).RawReports("2025-06-01")
	if len(raw) != 1 || raw[0].Agent != "security" {
		t.Fatalf("got %+v", raw)
	}
}

func TestMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "2025-06-01", "security.md", "# Security report\n")
	st := New(dir)

	md, err := st.Markdown("2025-06-01", "security")
	if err != nil || string(md) != "# Security report\n" {
		t.Fatalf("md = %q, err = %v", md, err)
	}
	if _, err := st.Markdown("2025-06-01", "quality"); !os.IsNotExist(err) {
		t.Fatalf("want IsNotExist, got %v", err)
	}
}
