package main

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jpdehyl/BSA-demo/internal/importer"
	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/store"
)

var (
	batchFile        string
	batchConcurrency int
	batchLimit       int
	batchOutput      string
)

// researcher is the aggregator as seen by commands and handlers.
type researcher interface {
	Research(ctx context.Context, s model.Subject) (*model.CompositeResearchRecord, error)
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Research every lead in a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		subjects, err := importer.ReadFile(ctx, batchFile)
		if err != nil {
			return eris.Wrap(err, "batch: read leads")
		}
		if batchLimit > 0 && batchLimit < len(subjects) {
			subjects = subjects[:batchLimit]
		}
		zap.L().Info("batch: leads loaded", zap.Int("count", len(subjects)), zap.String("file", batchFile))

		if batchConcurrency > 0 {
			cfg.Research.BatchConcurrency = batchConcurrency
		}
		env, err := initResearch(ctx, "batch", true)
		if err != nil {
			return err
		}
		defer env.Close()

		summary := runBatch(ctx, env.Aggregator, env.Store, subjects, cfg.Research.BatchConcurrency)
		zap.L().Info("batch: complete",
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
		)

		if batchOutput == "" {
			return nil
		}
		return writeRecord(cmd.OutOrStdout(), summary, batchOutput)
	},
}

// batchSummary is the outcome of a batch run.
type batchSummary struct {
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Results   []batchResultEntry `json:"results"`
}

type batchResultEntry struct {
	ID       string              `json:"id,omitempty"`
	Contact  string              `json:"contact"`
	Company  string              `json:"company"`
	FitScore int                 `json:"fit_score"`
	Priority model.PriorityLevel `json:"priority,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// runBatch researches subjects with at most n in flight. A failed subject
// is recorded and never aborts the batch. Results keep input order.
func runBatch(ctx context.Context, r researcher, st store.Store, subjects []model.Subject, n int) batchSummary {
	entries := make([]batchResultEntry, len(subjects))
	var succeeded, failed atomic.Int64
	var saveMu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(n, 1))

	for i, s := range subjects {
		g.Go(func() error {
			entry := batchResultEntry{Contact: s.ContactName, Company: s.CompanyName}
			defer func() { entries[i] = entry }()

			rec, err := r.Research(gCtx, s)
			if err == nil && st != nil {
				saveMu.Lock()
				err = st.Save(gCtx, rec)
				saveMu.Unlock()
			}
			if err != nil {
				failed.Add(1)
				entry.Error = err.Error()
				zap.L().Error("batch: lead failed",
					zap.String("contact", s.ContactName),
					zap.String("company", s.CompanyName),
					zap.Error(err),
				)
				return nil
			}

			succeeded.Add(1)
			entry.ID = rec.ID
			entry.FitScore = rec.Score.Final
			entry.Priority = rec.Score.Priority
			return nil
		})
	}
	_ = g.Wait()

	return batchSummary{
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Results:   entries,
	}
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "path to a .csv or .xlsx lead file (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "leads researched at once (default from config)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "research at most this many leads")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "print a summary: json or yaml")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
