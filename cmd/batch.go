package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/esg-cli/internal/cascade"
	"github.com/sells-group/esg-cli/internal/cost"
	"github.com/sells-group/esg-cli/internal/emissions"
	"github.com/sells-group/esg-cli/internal/export"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/internal/store"
)

var (
	batchConcurrency int
	batchRegion      string
	batchExportPath  string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Process every bill PDF in a directory",
	Long:  "Runs the extraction cascade over each PDF in a directory concurrently, calculates emissions, persists each run, and optionally writes an xlsx summary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		docs, err := listPDFs(args[0])
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			zap.L().Info("no PDF documents found", zap.String("dir", args[0]))
			return nil
		}

		limiter := apiLimiter()
		exec, err := buildExecutor(cfg.Extraction.ConfidenceThreshold,
			cfg.Extraction.EnableOCR, cfg.Extraction.EnableVision, limiter)
		if err != nil {
			return err
		}
		factors, err := loadFactorTable("")
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		zap.L().Info("processing batch",
			zap.Int("documents", len(docs)),
			zap.Int("concurrency", concurrency),
		)

		var (
			mu       sync.Mutex
			rows     = make([]export.BatchRow, len(docs))
			failures atomic.Int64
			total    = cost.NewLedger()
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		for i, doc := range docs {
			g.Go(func() error {
				row := processOne(gctx, exec, factors, st, doc, batchRegion, total)
				if row.Error != "" {
					failures.Add(1)
				}
				mu.Lock()
				rows[i] = row
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch")
		}

		zap.L().Info("batch complete",
			zap.Int("documents", len(docs)),
			zap.Int64("failures", failures.Load()),
			zap.Float64("total_cost_usd", total.Total()),
		)

		if batchExportPath != "" {
			if err := export.WriteBatchSummary(batchExportPath, rows); err != nil {
				return err
			}
			zap.L().Info("summary written", zap.String("path", batchExportPath))
		}
		return nil
	},
}

// processOne runs the full pipeline for one document and records the run.
// Failures become row errors, never batch aborts: one unreadable bill must
// not sink the other N-1.
func processOne(ctx context.Context, exec *cascade.Executor, factors *emissions.FactorTable, st store.Store, doc, region string, total *cost.Ledger) export.BatchRow {
	row := export.BatchRow{Document: doc}

	run, err := st.CreateRun(ctx, doc)
	if err != nil {
		zap.L().Error("create run failed", zap.String("document", doc), zap.Error(err))
		row.Error = err.Error()
		return row
	}
	_ = st.UpdateRunStatus(ctx, run.ID, model.RunStatusExtracting)

	ledger := cost.NewLedger()
	result, err := processDocument(ctx, exec, factors, doc, region, ledger)
	total.Merge(ledger)

	if appendErr := st.AppendLedger(ctx, run.ID, ledger.Entries()); appendErr != nil {
		zap.L().Warn("ledger persist failed", zap.String("run_id", run.ID), zap.Error(appendErr))
	}

	if err != nil {
		zap.L().Error("document failed",
			zap.String("document", doc),
			zap.Error(err),
		)
		row.Error = err.Error()
		_ = st.FailRun(ctx, run.ID, err.Error())
		return row
	}

	if err := st.UpdateRunResult(ctx, run.ID, result); err != nil {
		zap.L().Warn("run persist failed", zap.String("run_id", run.ID), zap.Error(err))
	}

	row.Extraction = result.Extraction
	row.Emissions = result.Emissions
	return row
}

// listPDFs returns the sorted PDF paths directly under dir.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", dir)
	}

	var docs []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		docs = append(docs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(docs)
	return docs, nil
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "worker count (default from config)")
	batchCmd.Flags().StringVar(&batchRegion, "region", "", "grid region applied to every document")
	batchCmd.Flags().StringVar(&batchExportPath, "export", "", "write an xlsx batch summary to this path")
	rootCmd.AddCommand(batchCmd)
}
