// Package export writes the job's output artifacts: the two CSV files and
// the optional distance-over-time plot.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"github.com/tanya221998/NASA-CEOS/internal/domain"
)

// Output file names, fixed by contract: downstream consumers (spreadsheets,
// cron diffs) key on these.
const (
	FullFile      = "close_approaches.csv"
	WatchlistFile = "watchlist.csv"
)

// CSVExporter writes the full record set and the watchlist subset as CSV
// files in a directory. Writes are atomic: each file is staged next to its
// destination and renamed only after both encode cleanly, so a failed run
// never leaves partial or mismatched artifacts.
type CSVExporter struct {
	outDir string
	logger *slog.Logger
}

// NewCSVExporter creates an exporter targeting outDir.
func NewCSVExporter(outDir string, logger *slog.Logger) *CSVExporter {
	return &CSVExporter{outDir: outDir, logger: logger}
}

// Export writes both output files. Empty inputs produce header-only files.
func (e *CSVExporter) Export(full, watchlist []domain.ApproachRecord) error {
	fullTmp, err := e.stage(FullFile, full)
	if err != nil {
		return err
	}
	watchTmp, err := e.stage(WatchlistFile, watchlist)
	if err != nil {
		os.Remove(fullTmp)
		return err
	}

	if err := os.Rename(fullTmp, filepath.Join(e.outDir, FullFile)); err != nil {
		os.Remove(fullTmp)
		os.Remove(watchTmp)
		return fmt.Errorf("publish %s: %w", FullFile, err)
	}
	if err := os.Rename(watchTmp, filepath.Join(e.outDir, WatchlistFile)); err != nil {
		os.Remove(watchTmp)
		return fmt.Errorf("publish %s: %w", WatchlistFile, err)
	}

	e.logger.Info("csv files written",
		"dir", e.outDir,
		"records", len(full),
		"watchlist", len(watchlist),
	)
	return nil
}

// stage encodes records into a temp file in the output directory and returns
// its path. The temp file lives in outDir so the final rename never crosses
// filesystems.
func (e *CSVExporter) stage(name string, records []domain.ApproachRecord) (string, error) {
	f, err := os.CreateTemp(e.outDir, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", name, err)
	}

	if err := encodeRecords(f, records); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return f.Name(), nil
}

// encodeRecords writes the header row and all records to w. The column set
// and order come from the csv struct tags on domain.ApproachRecord.
func encodeRecords(w io.Writer, records []domain.ApproachRecord) error {
	csvw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(csvw)

	if err := enc.EncodeHeader(domain.ApproachRecord{}); err != nil {
		return err
	}
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return err
		}
	}

	csvw.Flush()
	return csvw.Error()
}
