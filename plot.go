package ponder

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// RenderChart writes an HTML page charting each agent's win rate over the
// course of the match, one line per agent.
func (s *Statistics) RenderChart(filename, title string) error {
	var games int
	for _, name := range s.Creation {
		if len(s.Wins[name]) > games {
			games = len(s.Wins[name])
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	var xs []string
	for i := 0; i < games; i++ {
		xs = append(xs, fmt.Sprintf("%d", i+1))
	}
	line = line.SetXAxis(xs)

	for _, name := range s.Creation {
		rates := s.WinRates(name)
		items := make([]opts.LineData, 0, len(rates))
		for _, rate := range rates {
			items = append(items, opts.LineData{Value: rate})
		}
		line.AddSeries(name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", filename)
	}
	defer f.Close()
	return errors.Wrap(page.Render(f), "failed to render the chart")
}
