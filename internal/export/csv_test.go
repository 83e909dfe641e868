package export

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanya221998/NASA-CEOS/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecords() []domain.ApproachRecord {
	h := 23.9
	v := 7.30
	return []domain.ApproachRecord{
		{
			Designation: "2021 GT2",
			Fullname:    "(2021 GT2)",
			TimeRaw:     "2025-Sep-06 03:12",
			Time:        time.Date(2025, 9, 6, 3, 12, 0, 0, time.UTC),
			DistAU:      0.0190949,
			DistLD:      7.43,
			VRelKmS:     &v,
			H:           &h,
			VeryClose:   true,
		},
		{
			Designation: "2024 YR4",
			Fullname:    "(2024 YR4)",
			TimeRaw:     "2025-Sep-10 14:23",
			Time:        time.Date(2025, 9, 10, 14, 23, 0, 0, time.UTC),
			DistAU:      0.0831,
			DistLD:      32.34,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVExporter(t *testing.T) {
	t.Run("writes both files", func(t *testing.T) {
		dir := t.TempDir()
		exporter := NewCSVExporter(dir, testLogger())
		records := sampleRecords()

		require.NoError(t, exporter.Export(records, records[:1]))

		full := readCSV(t, filepath.Join(dir, FullFile))
		require.Len(t, full, 3)
		header := full[0]
		assert.Contains(t, header, "designation")
		assert.Contains(t, header, "close_approach_time_tdb")
		assert.Contains(t, header, "dist_ld")
		assert.Contains(t, header, "pha")

		desCol := indexOf(t, header, "designation")
		assert.Equal(t, "2021 GT2", full[1][desCol])
		assert.Equal(t, "2024 YR4", full[2][desCol])

		watch := readCSV(t, filepath.Join(dir, WatchlistFile))
		require.Len(t, watch, 2)
		assert.Equal(t, header, watch[0])
		assert.Equal(t, "2021 GT2", watch[1][desCol])
	})

	t.Run("empty inputs produce header-only files", func(t *testing.T) {
		dir := t.TempDir()
		exporter := NewCSVExporter(dir, testLogger())

		require.NoError(t, exporter.Export(nil, nil))

		full := readCSV(t, filepath.Join(dir, FullFile))
		assert.Len(t, full, 1)
		watch := readCSV(t, filepath.Join(dir, WatchlistFile))
		assert.Len(t, watch, 1)
	})

	t.Run("unknown optional fields encode as empty cells", func(t *testing.T) {
		dir := t.TempDir()
		exporter := NewCSVExporter(dir, testLogger())
		records := sampleRecords()

		require.NoError(t, exporter.Export(records, nil))

		full := readCSV(t, filepath.Join(dir, FullFile))
		hCol := indexOf(t, full[0], "h_abs_mag")
		assert.Equal(t, "23.9", full[1][hCol])
		assert.Equal(t, "", full[2][hCol])
	})

	t.Run("byte identical across runs", func(t *testing.T) {
		dir := t.TempDir()
		exporter := NewCSVExporter(dir, testLogger())
		records := sampleRecords()

		require.NoError(t, exporter.Export(records, records[:1]))
		first, err := os.ReadFile(filepath.Join(dir, FullFile))
		require.NoError(t, err)

		require.NoError(t, exporter.Export(records, records[:1]))
		second, err := os.ReadFile(filepath.Join(dir, FullFile))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("no leftover temp files", func(t *testing.T) {
		dir := t.TempDir()
		exporter := NewCSVExporter(dir, testLogger())

		require.NoError(t, exporter.Export(sampleRecords(), nil))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
		}
	})

	t.Run("missing output directory fails cleanly", func(t *testing.T) {
		exporter := NewCSVExporter(filepath.Join(t.TempDir(), "nope"), testLogger())

		err := exporter.Export(sampleRecords(), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), FullFile)
	})
}

func TestPlotRenderer(t *testing.T) {
	t.Run("renders a png for two or more records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "close_approaches.png")
		renderer := NewPlotRenderer(path, testLogger())

		require.NoError(t, renderer.Render(sampleRecords()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Greater(t, len(data), 8)
		assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8])
	})

	t.Run("fewer than two records writes nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "close_approaches.png")
		renderer := NewPlotRenderer(path, testLogger())

		require.NoError(t, renderer.Render(sampleRecords()[:1]))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}

func indexOf(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, h := range header {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not in header %v", name, header)
	return -1
}
