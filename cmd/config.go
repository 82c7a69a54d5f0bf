package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/telco-eda/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set telcoeda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "max_null_fraction: %.3f\n", c.MaxNullFraction)
		fmt.Fprintf(out, "impute_strategy: %s\n", c.ImputeStrategy)
		fmt.Fprintf(out, "outlier_method: %s\n", c.OutlierMethod)
		fmt.Fprintf(out, "z_threshold: %.3f\n", c.ZThreshold)
		fmt.Fprintf(out, "iqr_multiplier: %.3f\n", c.IQRMultiplier)
		fmt.Fprintf(out, "treatment: %s\n", c.Treatment)
		fmt.Fprintf(out, "percentile: %.3f\n", c.Percentile)
		if len(c.NullTokens) > 0 {
			fmt.Fprintf(out, "null_tokens: %s\n", strings.Join(c.NullTokens, ","))
		}
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(out, "plot_width_in: %.1f\n", c.PlotWidthIn)
		fmt.Fprintf(out, "plot_height_in: %.1f\n", c.PlotHeightIn)
		fmt.Fprintf(out, "sample_rows: %d\n", c.SampleRows)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := settings()
		if err != nil {
			return err
		}
		next := *c
		switch key {
		case "max_null_fraction":
			next.MaxNullFraction, err = parseFloat(key, val)
		case "impute_strategy":
			next.ImputeStrategy = strings.ToLower(val)
		case "outlier_method":
			next.OutlierMethod = strings.ToLower(val)
		case "z_threshold":
			next.ZThreshold, err = parseFloat(key, val)
		case "iqr_multiplier":
			next.IQRMultiplier, err = parseFloat(key, val)
		case "treatment":
			next.Treatment = strings.ToLower(val)
		case "percentile":
			next.Percentile, err = parseFloat(key, val)
		case "null_tokens":
			next.NullTokens = strings.Split(val, ",")
		case "log_level":
			next.LogLevel = strings.ToLower(val)
		case "log_format":
			next.LogFormat = strings.ToLower(val)
		case "plot_width_in":
			next.PlotWidthIn, err = parseFloat(key, val)
		case "plot_height_in":
			next.PlotHeightIn, err = parseFloat(key, val)
		case "sample_rows":
			var i int
			if i, err = strconv.Atoi(val); err != nil {
				err = fmt.Errorf("invalid int for sample_rows: %w", err)
			}
			next.SampleRows = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		// Save validates; cfg is only replaced once the value is accepted.
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func parseFloat(key, val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %w", key, err)
	}
	return f, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
