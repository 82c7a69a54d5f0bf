package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const usageCSV = `bearer_id,total_ul,sparse,handset
1,1,5,A
2,2,,B
3,3,,C
4,4,,D
5,100,,E
6,,,F
`

// resetFlags puts every flag back to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns stdout, stderr and the error.
func execCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg, cfgErr = nil, nil
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) (string, string) {
	t.Helper()
	stdout, stderr, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return stdout, stderr
}

// isolate points HOME at a temp dir and writes the usage fixture there.
func isolate(t *testing.T) (home, csvPath string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	csvPath = filepath.Join(home, "usage.csv")
	if err := os.WriteFile(csvPath, []byte(usageCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return home, csvPath
}

func TestCLI_AnalyzeMarkdown(t *testing.T) {
	_, csvPath := isolate(t)

	out, _ := runCmd(t, "analyze", csvPath)
	for _, want := range []string{"[DATASET SUMMARY]", "File: usage.csv", "Rows: 6", "[SCHEMA]", "- total_ul: numeric", "[HEAD ROWS]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCLI_AnalyzeJSONToFile(t *testing.T) {
	home, csvPath := isolate(t)
	outPath := filepath.Join(home, "reports", "usage.json")

	out, _ := runCmd(t, "analyze", csvPath, "--json", "-o", outPath, "--deciles", "bearer_id", "--q", "2")
	if !strings.Contains(out, "Wrote analysis to") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var rep struct {
		Rows    int `json:"rows"`
		Columns []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if rep.Rows != 6 {
		t.Fatalf("rows = %d, want 6", rep.Rows)
	}
	last := rep.Columns[len(rep.Columns)-1]
	if last.Name != "deciles" || last.Kind != "categorical" {
		t.Fatalf("last column = %+v, want categorical deciles", last)
	}
}

func TestCLI_CleanWritesCSV(t *testing.T) {
	home, csvPath := isolate(t)
	outPath := filepath.Join(home, "clean.csv")

	out, logs := runCmd(t, "clean", csvPath, "-o", outPath, "--log-format", "json")
	if !strings.Contains(out, "dropped: sparse") {
		t.Fatalf("expected sparse column to be dropped:\n%s", out)
	}
	if !strings.Contains(out, "outliers (iqr): 1 -> 0") {
		t.Fatalf("expected outlier counts:\n%s", out)
	}
	if n := strings.Count(logs, `"msg":"stage complete"`); n != 6 {
		t.Fatalf("stage log lines = %d, want 6:\n%s", n, logs)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "bearer_id,total_ul,handset\n1,1,A\n2,2,B\n3,3,C\n4,4,D\n5,40.375,E\n6,22,F\n"
	if string(b) != want {
		t.Fatalf("clean csv =\n%s\nwant\n%s", b, want)
	}
}

func TestCLI_CleanRejectsUnknownStrategy(t *testing.T) {
	home, csvPath := isolate(t)
	_, _, err := execCmd(t, "clean", csvPath, "-o", filepath.Join(home, "x.csv"), "--impute", "interpolate")
	if err == nil {
		t.Fatalf("expected unsupported strategy error")
	}
	if _, statErr := os.Stat(filepath.Join(home, "x.csv")); statErr == nil {
		t.Fatalf("no output expected on failure")
	}
}

func TestCLI_PlotHistogram(t *testing.T) {
	home, csvPath := isolate(t)
	outPath := filepath.Join(home, "charts", "ul.png")

	runCmd(t, "plot", "hist", csvPath, "--x", "total_ul", "-o", outPath)
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("chart is not a PNG")
	}

	if _, _, err := execCmd(t, "plot", "violin", csvPath, "-o", outPath); err == nil {
		t.Fatalf("expected error for unknown chart kind")
	}
	if _, _, err := execCmd(t, "plot", "scatter", csvPath, "--x", "total_ul", "-o", outPath); err == nil {
		t.Fatalf("expected error for missing --y")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home, _ := isolate(t)

	runCmd(t, "config", "set", "treatment", "median")
	if _, err := os.Stat(filepath.Join(home, ".telcoeda", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out, _ := runCmd(t, "config", "show")
	if !strings.Contains(out, "treatment: median") {
		t.Fatalf("expected saved treatment in:\n%s", out)
	}

	if _, _, err := execCmd(t, "config", "set", "percentile", "2"); err == nil {
		t.Fatalf("expected validation error for percentile 2")
	}
	if _, _, err := execCmd(t, "config", "set", "colour", "red"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	out, _ = runCmd(t, "config", "show")
	if !strings.Contains(out, "percentile: 0.950") {
		t.Fatalf("rejected value must not be kept:\n%s", out)
	}
}
