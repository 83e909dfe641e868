package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tanya221998/NASA-CEOS/internal/domain"
	"github.com/tanya221998/NASA-CEOS/internal/observability"
)

// Fetcher retrieves the raw close-approach table for a window.
type Fetcher interface {
	FetchWindow(ctx context.Context, window domain.Window) (domain.RawTable, error)
}

// Exporter writes the full record set and the watchlist subset.
type Exporter interface {
	Export(full, watchlist []domain.ApproachRecord) error
}

// Plotter renders the optional distance-over-time artifact.
type Plotter interface {
	Render(records []domain.ApproachRecord) error
}

// Publisher pushes watchlist records to an additional machine-readable sink.
type Publisher interface {
	PublishWatchlist(ctx context.Context, records []domain.ApproachRecord) error
}

// Deps collects the job's collaborators. MOID, Plotter, and Publisher are
// optional; leave them nil to disable enrichment, plotting, or publishing.
type Deps struct {
	Fetcher   Fetcher
	MOID      domain.MOIDProvider
	Exporter  Exporter
	Plotter   Plotter
	Publisher Publisher
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// Job is one fetch-derive-filter-export run. It holds no state between runs;
// every record lives only from fetch to export.
type Job struct {
	deps      Deps
	days      int
	maxDistLD float64
	ready     atomic.Bool
}

// New creates a Job for a "next days" window and a watchlist distance
// threshold in lunar distances.
func New(deps Deps, days int, maxDistLD float64) *Job {
	return &Job{
		deps:      deps,
		days:      days,
		maxDistLD: maxDistLD,
	}
}

// CheckReadiness returns nil once the job has fetched and parsed the feed,
// or an error describing why it has not.
func (j *Job) CheckReadiness(_ context.Context) error {
	if !j.ready.Load() {
		return errors.New("job has not fetched the feed yet")
	}
	return nil
}

// Run executes one complete run. On a fetch or decode failure it returns
// before anything is written, so existing output files are left untouched.
// Malformed individual rows are skipped and reported, not fatal.
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()
	j.deps.Metrics.JobRunning.Set(1)
	defer j.deps.Metrics.JobRunning.Set(0)

	window := domain.NewWindow(j.days)
	j.deps.Logger.Info("run started",
		"date_min", window.Start.Format("2006-01-02"),
		"date_max", window.End.Format("2006-01-02"),
		"watchlist_max_ld", j.maxDistLD,
	)

	fetchStart := time.Now()
	table, err := j.deps.Fetcher.FetchWindow(ctx, window)
	if err != nil {
		return fmt.Errorf("fetch close approaches: %w", err)
	}
	j.deps.Metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	j.deps.Metrics.RecordsFetched.Add(float64(len(table.Rows)))

	records, err := j.parseRows(table)
	if err != nil {
		return err
	}
	j.ready.Store(true)

	if err := j.enrich(ctx, records); err != nil {
		return err
	}

	domain.SortRecords(records)
	watchlist := domain.Watchlist(records, j.maxDistLD)

	if err := j.deps.Exporter.Export(records, watchlist); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	j.deps.Metrics.RecordsExported.Add(float64(len(records)))
	j.deps.Metrics.WatchlistSize.Set(float64(len(watchlist)))

	if j.deps.Plotter != nil {
		if err := j.deps.Plotter.Render(records); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}

	if j.deps.Publisher != nil {
		if err := j.deps.Publisher.PublishWatchlist(ctx, watchlist); err != nil {
			return fmt.Errorf("publish watchlist: %w", err)
		}
	}

	j.deps.Metrics.RunDuration.Observe(time.Since(start).Seconds())
	j.deps.Logger.Info("run finished",
		"records", len(records),
		"watchlist", len(watchlist),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// parseRows converts the raw table into records, skipping and reporting
// malformed rows. An empty table is valid (no approaches in the window); a
// table whose header lacks the required columns is not.
func (j *Job) parseRows(table domain.RawTable) ([]domain.ApproachRecord, error) {
	if len(table.Rows) == 0 {
		return nil, nil
	}

	idx, err := domain.NewFieldIndex(table.Fields)
	if err != nil {
		return nil, fmt.Errorf("cad response: %w", err)
	}

	records := make([]domain.ApproachRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec, err := domain.ParseRow(idx, row)
		if err != nil {
			j.deps.Logger.Warn("skipping malformed row", "error", err)
			j.deps.Metrics.RecordsSkipped.Inc()
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// enrich attaches MOID data to every record when a provider is configured.
// Individual lookup failures degrade to records without MOID; only context
// cancellation aborts the run.
func (j *Job) enrich(ctx context.Context, records []domain.ApproachRecord) error {
	if j.deps.MOID == nil {
		return nil
	}
	for i := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		records[i] = domain.EnrichWithMOID(ctx, records[i], j.deps.MOID, j.deps.Logger)
	}
	return nil
}
