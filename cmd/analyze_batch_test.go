package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeBatch_OutDirAndSuppressSamples(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Prepare two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	if err := os.MkdirAll(d1, 0o755); err != nil {
		t.Fatalf("mkdir d1: %v", err)
	}
	if err := os.MkdirAll(d2, 0o755); err != nil {
		t.Fatalf("mkdir d2: %v", err)
	}
	csv := "handset,total_dl\nA,1\nB,2\nC,3\n"
	p1 := filepath.Join(d1, "metrics.csv")
	p2 := filepath.Join(d2, "metrics.csv")
	if err := os.WriteFile(p1, []byte(csv), 0o644); err != nil {
		t.Fatalf("write p1: %v", err)
	}
	if err := os.WriteFile(p2, []byte(csv), 0o644); err != nil {
		t.Fatalf("write p2: %v", err)
	}

	outDir := filepath.Join(home, "summaries")
	out, _ := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--sample-rows", "0")
	if !strings.Contains(out, "[1/2] Processing metrics.csv") || !strings.Contains(out, "[2/2] Processing metrics.csv") {
		t.Fatalf("expected progress lines:\n%s", out)
	}

	// Verify files written with collision suffix
	b1 := filepath.Join(outDir, "metrics.summary.md")
	b2 := filepath.Join(outDir, "metrics__2.summary.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing summary %s: %v", p, err)
		}
		if strings.Contains(string(body), "[HEAD ROWS]") {
			t.Fatalf("expected no sample rows in %s", p)
		}
		if !strings.Contains(string(body), "Rows: 3") {
			t.Fatalf("unexpected summary in %s:\n%s", p, body)
		}
	}
}

func TestAnalyzeBatch_NoMatches(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if _, _, err := execCmd(t, "analyze-batch", filepath.Join(home, "none-*.csv")); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}

func TestExpandInputsDedupesAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	got := expandInputs([]string{filepath.Join(dir, "*.csv"), filepath.Join(dir, "a.csv")})
	want := []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expandInputs = %v, want %v", got, want)
	}
}
