package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/invoscan/invoscan/internal/invoice"
)

type batchJob struct {
	index int
	path  string
}

type batchResult struct {
	index  int
	record *invoice.ExtractionRecord
	err    error
}

// ProcessBatch processes documents in parallel on a bounded worker pool.
func (p *Pipeline) ProcessBatch(paths []string) []invoice.BatchItem {
	return p.ProcessBatchContext(context.Background(), paths)
}

// ProcessBatchContext processes documents in parallel. Results come back in
// input order, each labeled with its filename; one unreadable document does
// not affect the others. A canceled context abandons unstarted documents,
// marking them with the context error.
func (p *Pipeline) ProcessBatchContext(ctx context.Context, paths []string) []invoice.BatchItem {
	items := make([]invoice.BatchItem, len(paths))
	for i, path := range paths {
		items[i] = invoice.BatchItem{Filename: filepath.Base(path)}
	}
	if len(paths) == 0 {
		return items
	}

	batchID := uuid.NewString()
	logger := slog.With("batch", batchID)
	logger.Info("batch accepted", "documents", len(paths))
	p.metrics.observeBatch(len(paths))

	workers := p.cfg.Workers
	if workers <= 0 || workers > len(paths) {
		workers = min(len(paths), DefaultConfig().Workers)
	}

	p.progress.OnStart(len(paths))
	defer p.progress.OnComplete()

	jobs := make(chan batchJob, len(paths))
	results := make(chan batchResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go p.batchWorker(ctx, jobs, results, &wg)
	}

	go func() {
		defer close(jobs)
		for i, path := range paths {
			select {
			case jobs <- batchJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for res := range results {
		items[res.index].Record = res.record
		items[res.index].Err = res.err
		done++
		p.progress.OnProgress(done, len(paths))
		if res.err != nil {
			p.progress.OnError(res.index, res.err)
		}
	}

	// Documents the pool never reached carry the cancellation error rather
	// than silently missing a result.
	if err := ctx.Err(); err != nil {
		for i := range items {
			if items[i].Record == nil && items[i].Err == nil {
				items[i].Err = err
			}
		}
	}

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	logger.Info("batch finished", "documents", len(paths), "failed", failed)

	return items
}

func (p *Pipeline) batchWorker(ctx context.Context, jobs <-chan batchJob, results chan<- batchResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			record, err := p.ProcessContext(ctx, job.path)
			select {
			case results <- batchResult{index: job.index, record: record, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
