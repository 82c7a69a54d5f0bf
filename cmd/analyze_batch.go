package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/outlier"
	"github.com/KaramelBytes/telco-eda/internal/overview"
	"github.com/KaramelBytes/telco-eda/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abInput      inputFlags
	abOutDir     string
	abJSON       bool
	abSampleRows int
	abCorr       bool
	abMethod     string
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Summarize multiple CSV/TSV/XLSX files with progress, one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c, err := settings()
		if err != nil {
			return err
		}
		opt := overview.DefaultOptions()
		opt.SampleRows = c.SampleRows
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = abSampleRows
		}
		opt.Correlations = abCorr
		if opt.Outliers, err = c.OutlierConfig(); err != nil {
			return err
		}
		if cmd.Flags().Changed("outlier-method") {
			if opt.Outliers.Method, err = outlier.ParseMethod(abMethod); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		ext := ".summary.md"
		if abJSON {
			ext = ".summary.json"
		}
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, err := abInput.load(path)
			if err != nil {
				return err
			}
			opt.Name = filepath.Base(path)
			rep, err := overview.Summarize(ds, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			var body []byte
			if abJSON {
				if body, err = utils.PrettyJSON(rep); err != nil {
					return err
				}
			} else {
				body = []byte(rep.Markdown())
			}

			if abOutDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, string(body))
				}
				continue
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outFile := filepath.Join(abOutDir, base+ext)
			if _, statErr := os.Stat(outFile); statErr == nil {
				for idx := 2; ; idx++ {
					cand := filepath.Join(abOutDir, fmt.Sprintf("%s__%d%s", base, idx, ext))
					if _, err := os.Stat(cand); os.IsNotExist(err) {
						if !abQuiet {
							fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(cand))
						}
						outFile = cand
						break
					}
				}
			}
			if err := utils.SafeWriteFile(outFile, body); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and returns
// the sorted distinct set.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abInput.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for per-file summaries (stdout if omitted)")
	analyzeBatchCmd.Flags().BoolVar(&abJSON, "json", false, "emit JSON instead of Markdown")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows to include (overrides config)")
	analyzeBatchCmd.Flags().BoolVar(&abCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	analyzeBatchCmd.Flags().StringVar(&abMethod, "outlier-method", "iqr", "outlier rule: iqr | zscore (overrides config)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
