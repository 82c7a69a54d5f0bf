// Package pipeline runs the missing-value and outlier cleaning stages in
// order over one dataset.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/telco-eda/internal/dataset"
	"github.com/KaramelBytes/telco-eda/internal/impute"
	"github.com/KaramelBytes/telco-eda/internal/logging"
	"github.com/KaramelBytes/telco-eda/internal/missing"
	"github.com/KaramelBytes/telco-eda/internal/outlier"
)

// Plan selects the stages to run and their parameters.
type Plan struct {
	// DropSparse drops columns whose null fraction exceeds MaxNullFraction.
	DropSparse      bool
	MaxNullFraction float64
	// Impute fills nulls with Strategy after the drop stage.
	Impute   bool
	Strategy impute.Strategy
	// Outlier configures detection; Treatment is applied afterwards.
	Outlier   outlier.Config
	Treatment outlier.Plan
	// Columns limits detection and treatment; empty means every numeric column.
	Columns []string
}

// DefaultPlan drops columns more than 30% empty, fills with the mean, and
// caps IQR outliers.
func DefaultPlan() Plan {
	return Plan{
		DropSparse:      true,
		MaxNullFraction: 0.3,
		Impute:          true,
		Strategy:        impute.Mean,
		Outlier:         outlier.DefaultConfig(),
		Treatment:       outlier.DefaultPlan(),
	}
}

// Result is the outcome of a run.
type Result struct {
	RunID         string
	Dataset       *dataset.Dataset
	Dropped       []string
	MissingBefore missing.Report
	MissingAfter  missing.Report
	// Detections are taken before treatment.
	Detections []outlier.Detection
	// Remaining counts outliers per column after treatment.
	Remaining map[string]int
}

// Runner executes plans with an injected logger.
type Runner struct {
	log *slog.Logger
}

// New returns a Runner. A nil logger discards records.
func New(log *slog.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{log: log}
}

// Run executes the plan over ds. Each completed stage logs one info record
// and a failing stage logs one error record; the input is never modified.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset, plan Plan) (*Result, error) {
	if ds == nil {
		return nil, &dataset.InvalidInputError{Op: "pipeline.Run", Reason: "dataset is nil"}
	}
	res := &Result{RunID: uuid.NewString(), Dataset: ds}
	ctx = logging.WithRunID(ctx, res.RunID)
	started := time.Now()

	stages := []struct {
		name string
		skip bool
		run  func() ([]any, error)
	}{
		{"missing", false, func() ([]any, error) {
			rep, err := missing.Analyze(res.Dataset)
			if err != nil {
				return nil, err
			}
			res.MissingBefore = rep
			return []any{"null_cells", rep.Total()}, nil
		}},
		{"drop", !plan.DropSparse, func() ([]any, error) {
			cols, err := missing.ColumnsToDrop(res.Dataset, plan.MaxNullFraction)
			if err != nil {
				return nil, err
			}
			for _, name := range plan.Columns {
				if slices.Contains(cols, name) {
					return nil, &dataset.InvalidArgumentError{Op: "pipeline.Run", Param: "columns", Value: name,
						Reason: fmt.Sprintf("column is dropped: null fraction above %v", plan.MaxNullFraction)}
				}
			}
			next, err := missing.DropColumns(res.Dataset, cols)
			if err != nil {
				return nil, err
			}
			res.Dataset, res.Dropped = next, cols
			return []any{"dropped", cols, "max_null_fraction", plan.MaxNullFraction}, nil
		}},
		{"impute", !plan.Impute, func() ([]any, error) {
			next, err := impute.Fill(res.Dataset, plan.Strategy)
			if err != nil {
				return nil, err
			}
			res.Dataset = next
			return []any{"strategy", plan.Strategy.String(), "null_cells", next.NullCount()}, nil
		}},
		{"detect", false, func() ([]any, error) {
			dets, err := outlier.DetectAll(res.Dataset, plan.Columns, plan.Outlier)
			if err != nil {
				return nil, err
			}
			res.Detections = dets
			total := 0
			for _, d := range dets {
				total += d.Outliers
			}
			return []any{"method", plan.Outlier.Method.String(), "columns", len(dets), "outliers", total}, nil
		}},
		{"treat", plan.Treatment.Treatment == outlier.None, func() ([]any, error) {
			next, err := outlier.Apply(res.Dataset, plan.Columns, plan.Treatment)
			if err != nil {
				return nil, err
			}
			res.Dataset = next
			return []any{"treatment", plan.Treatment.Treatment.String()}, nil
		}},
		{"verify", false, func() ([]any, error) {
			counts, err := outlier.Count(res.Dataset, plan.Columns, plan.Outlier)
			if err != nil {
				return nil, err
			}
			rep, err := missing.Analyze(res.Dataset)
			if err != nil {
				return nil, err
			}
			res.Remaining, res.MissingAfter = counts, rep
			return []any{"null_cells", rep.Total()}, nil
		}},
	}

	for _, st := range stages {
		if st.skip {
			continue
		}
		if err := ctx.Err(); err != nil {
			r.log.ErrorContext(ctx, "stage failed", "stage", st.name, "error", err)
			return nil, fmt.Errorf("pipeline %s: %w", st.name, err)
		}
		attrs, err := st.run()
		if err != nil {
			r.log.ErrorContext(ctx, "stage failed", "stage", st.name, "error", err)
			return nil, fmt.Errorf("pipeline %s: %w", st.name, err)
		}
		r.log.InfoContext(ctx, "stage complete", append([]any{"stage", st.name}, attrs...)...)
	}
	r.log.DebugContext(ctx, "run complete", "rows", res.Dataset.Rows(), "columns", res.Dataset.Width(),
		"elapsed", time.Since(started))
	return res, nil
}
