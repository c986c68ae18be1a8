package results

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/zeu5/simple-rl/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plotter draws the mean return per episode of every agent once the
// comparison is finalized. The data is read from the collector.
type Plotter struct {
	Path      string
	Title     string
	collector *Collector
}

var _ types.Recorder = &Plotter{}

func NewPlotter(plotPath, title string, collector *Collector) *Plotter {
	return &Plotter{
		Path:      plotPath,
		Title:     title,
		collector: collector,
	}
}

func (p *Plotter) Record(types.EpisodeRecord) error       { return nil }
func (p *Plotter) RecordTime(string, time.Duration) error { return nil }

func (p *Plotter) Finalize() error {
	if _, err := os.Stat(p.Path); err != nil {
		if err := os.MkdirAll(p.Path, os.ModePerm); err != nil {
			return err
		}
	}
	return p.Save(path.Join(p.Path, "comparison.png"))
}

// Save draws the comparison to file
func (p *Plotter) Save(file string) error {
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = "Episode"
	pl.Y.Label.Text = "Mean return"

	for i, agent := range p.collector.Agents() {
		summary := p.collector.Summary(agent)
		if len(summary) == 0 {
			continue
		}
		points := make(plotter.XYs, len(summary))
		for j, s := range summary {
			points[j] = plotter.XY{
				X: float64(s.Episode + 1),
				Y: s.Mean,
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("plotting %s: %w", agent, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		pl.Add(line)
		pl.Legend.Add(agent, line)
	}
	pl.Add(plotter.NewGrid())
	return pl.Save(8*vg.Inch, 8*vg.Inch, file)
}
