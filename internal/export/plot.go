package export

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/tanya221998/NASA-CEOS/internal/domain"
)

// PlotRenderer draws a scatter of close-approach distance (in lunar
// distances) over time as a PNG.
type PlotRenderer struct {
	path   string
	logger *slog.Logger
}

// NewPlotRenderer creates a renderer writing to path.
func NewPlotRenderer(path string, logger *slog.Logger) *PlotRenderer {
	return &PlotRenderer{path: path, logger: logger}
}

// Render writes the plot. With fewer than two records there is nothing worth
// drawing (and the chart axes cannot be ranged), so the call is a logged
// no-op and no file is produced.
func (p *PlotRenderer) Render(records []domain.ApproachRecord) error {
	if len(records) < 2 {
		p.logger.Info("skipping plot, not enough records", "records", len(records))
		return nil
	}

	times := make([]time.Time, len(records))
	dists := make([]float64, len(records))
	for i := range records {
		times[i] = records[i].Time
		dists[i] = records[i].DistLD
	}

	graph := chart.Chart{
		Title: "Close approaches, distance over time",
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "distance (LD)",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "nominal distance",
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
				},
				XValues: times,
				YValues: dists,
			},
		},
	}

	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	p.logger.Info("plot written", "path", p.path, "points", len(records))
	return nil
}
