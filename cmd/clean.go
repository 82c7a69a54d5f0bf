package cmd

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/telco-eda/internal/impute"
	"github.com/KaramelBytes/telco-eda/internal/loader"
	"github.com/KaramelBytes/telco-eda/internal/outlier"
	"github.com/KaramelBytes/telco-eda/internal/pipeline"
	"github.com/KaramelBytes/telco-eda/internal/preprocess"
	"github.com/KaramelBytes/telco-eda/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clnInput      inputFlags
	clnOutputPath string
	clnThreshold  float64
	clnNoDrop     bool
	clnImpute     string
	clnMethod     string
	clnTreatment  string
	clnColumns    []string
	clnPercentile float64
	clnCleanNames bool
	clnDatetime   []string
	clnFloat      []string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Drop sparse columns, impute nulls and treat outliers; write the result as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if clnOutputPath == "" {
			return fmt.Errorf("--output is required")
		}
		c, err := settings()
		if err != nil {
			return err
		}
		plan, err := c.PipelinePlan()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("drop-threshold") {
			plan.MaxNullFraction = clnThreshold
		}
		plan.DropSparse = !clnNoDrop
		if f.Changed("impute") {
			if strings.EqualFold(clnImpute, "none") {
				plan.Impute = false
			} else {
				if plan.Strategy, err = impute.ParseStrategy(clnImpute); err != nil {
					return err
				}
				plan.Impute = true
			}
		}
		if f.Changed("outlier-method") {
			if plan.Outlier.Method, err = outlier.ParseMethod(clnMethod); err != nil {
				return err
			}
		}
		if f.Changed("treatment") {
			if plan.Treatment.Treatment, err = outlier.ParseTreatment(clnTreatment); err != nil {
				return err
			}
		}
		if f.Changed("percentile") {
			plan.Treatment.Percentile = clnPercentile
		}
		plan.Columns = clnColumns

		ds, err := clnInput.load(args[0])
		if err != nil {
			return err
		}
		for _, col := range clnDatetime {
			if ds, err = preprocess.ToDatetime(ds, col); err != nil {
				return err
			}
		}
		for _, col := range clnFloat {
			if ds, err = preprocess.ToFloat(ds, col); err != nil {
				return err
			}
		}
		if clnCleanNames {
			if ds, err = preprocess.CleanFeatureNames(ds); err != nil {
				return err
			}
		}

		res, err := pipeline.New(newLogger(cmd, c)).Run(cmd.Context(), ds, plan)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := loader.WriteCSV(&buf, res.Dataset); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(clnOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Wrote %d rows x %d columns to %s\n", res.Dataset.Rows(), res.Dataset.Width(), clnOutputPath)
		if len(res.Dropped) > 0 {
			fmt.Fprintf(out, "  dropped: %s\n", strings.Join(res.Dropped, ", "))
		}
		fmt.Fprintf(out, "  null cells: %d -> %d\n", res.MissingBefore.Total(), res.MissingAfter.Total())
		before := 0
		for _, d := range res.Detections {
			before += d.Outliers
		}
		after := 0
		names := make([]string, 0, len(res.Remaining))
		for name, n := range res.Remaining {
			after += n
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(out, "  outliers (%s): %d -> %d\n", plan.Outlier.Method, before, after)
		if debug {
			for _, name := range names {
				fmt.Fprintf(out, "    %s: %d\n", name, res.Remaining[name])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	clnInput.register(cleanCmd)
	cleanCmd.Flags().StringVarP(&clnOutputPath, "output", "o", "", "path of the cleaned CSV")
	cleanCmd.Flags().Float64Var(&clnThreshold, "drop-threshold", 0.3, "drop columns whose null fraction exceeds this (overrides config)")
	cleanCmd.Flags().BoolVar(&clnNoDrop, "no-drop", false, "keep sparse columns")
	cleanCmd.Flags().StringVar(&clnImpute, "impute", "mean", "imputation: mean | median | mode | ffill | bfill | none (overrides config)")
	cleanCmd.Flags().StringVar(&clnMethod, "outlier-method", "iqr", "outlier rule: iqr | zscore (overrides config)")
	cleanCmd.Flags().StringVar(&clnTreatment, "treatment", "cap", "outlier treatment: none | log | cap | mean | median | percentile (overrides config)")
	cleanCmd.Flags().StringSliceVar(&clnColumns, "columns", nil, "numeric columns to treat (default: all)")
	cleanCmd.Flags().Float64Var(&clnPercentile, "percentile", 0.95, "percentile for --treatment percentile (overrides config)")
	cleanCmd.Flags().BoolVar(&clnCleanNames, "clean-names", false, "lowercase column names and replace spaces with underscores")
	cleanCmd.Flags().StringSliceVar(&clnDatetime, "to-datetime", nil, "columns to convert to datetime before cleaning")
	cleanCmd.Flags().StringSliceVar(&clnFloat, "to-float", nil, "columns to convert to numbers before cleaning")
}
