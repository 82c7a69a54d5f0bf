package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/telco-eda/internal/outlier"
	"github.com/KaramelBytes/telco-eda/internal/overview"
	"github.com/KaramelBytes/telco-eda/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaInput      inputFlags
	anaOutputPath string
	anaJSON       bool
	anaSampleRows int
	anaCorr       bool
	anaMethod     string
	anaZThreshold float64
	anaIQRMult    float64
	anaDeciles    string
	anaQ          int
	anaDedupe     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize a CSV/TSV/XLSX: missing values, skew, outliers, correlations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c, err := settings()
		if err != nil {
			return err
		}
		opt := overview.DefaultOptions()
		opt.Name = filepath.Base(path)
		opt.SampleRows = c.SampleRows
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = anaSampleRows
		}
		opt.Correlations = anaCorr
		if opt.Outliers, err = c.OutlierConfig(); err != nil {
			return err
		}
		if cmd.Flags().Changed("outlier-method") {
			if opt.Outliers.Method, err = outlier.ParseMethod(anaMethod); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("z-threshold") {
			opt.Outliers.ZThreshold = anaZThreshold
		}
		if cmd.Flags().Changed("iqr-multiplier") {
			opt.Outliers.IQRMultiplier = anaIQRMult
		}

		ds, err := anaInput.load(path)
		if err != nil {
			return err
		}
		if anaDedupe {
			if ds, err = overview.DropDuplicates(ds); err != nil {
				return err
			}
		}
		if anaDeciles != "" {
			if ds, err = overview.Deciles(ds, anaDeciles, anaQ, nil); err != nil {
				return err
			}
		}
		rep, err := overview.Summarize(ds, opt)
		if err != nil {
			return err
		}

		var out []byte
		if anaJSON {
			if out, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
		} else {
			out = []byte(rep.Markdown())
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaInput.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "emit JSON instead of Markdown")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	analyzeCmd.Flags().StringVar(&anaMethod, "outlier-method", "iqr", "outlier rule: iqr | zscore (overrides config)")
	analyzeCmd.Flags().Float64Var(&anaZThreshold, "z-threshold", 3, "|z| above which a value is an outlier (overrides config)")
	analyzeCmd.Flags().Float64Var(&anaIQRMult, "iqr-multiplier", 1.5, "IQR fence multiplier (overrides config)")
	analyzeCmd.Flags().StringVar(&anaDeciles, "deciles", "", "numeric column to bin into equal-frequency deciles")
	analyzeCmd.Flags().IntVar(&anaQ, "q", 10, "number of bins for --deciles")
	analyzeCmd.Flags().BoolVar(&anaDedupe, "drop-duplicates", false, "drop duplicate rows before summarizing")
}
