// Package plot renders training score curves as standalone HTML charts.
package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the moving-average width drawn next to the raw scores.
const DefaultWindow = 100

// HTML writes one chart per call into Dir.
type HTML struct {
	Dir    string
	Title  string
	Window int
}

// NewHTML returns a plotter writing into dir.
func NewHTML(dir, title string) *HTML {
	return &HTML{Dir: dir, Title: title, Window: DefaultWindow}
}

// Path is the file Plot writes for episode.
func (h *HTML) Path(episode int) string {
	return filepath.Join(h.Dir, "training_progress_episode_"+strconv.Itoa(episode)+".html")
}

// Plot writes the score history up to episode.
func (h *HTML) Plot(scores []float64, episode int) error {
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", h.Dir)
	}
	f, err := os.Create(h.Path(episode))
	if err != nil {
		return errors.Wrapf(err, "create chart")
	}
	if err := h.Render(f, scores, episode); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close chart")
}

// Render writes the chart page to w.
func (h *HTML) Render(w io.Writer, scores []float64, episode int) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    h.Title,
			Subtitle: fmt.Sprintf("episode %d", episode),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	xs := make([]string, len(scores))
	raw := make([]opts.LineData, len(scores))
	avg := make([]opts.LineData, len(scores))
	for i, v := range scores {
		xs[i] = strconv.Itoa(i + 1)
		raw[i] = opts.LineData{Value: v}
		avg[i] = opts.LineData{Value: MovingAverage(scores, i, h.Window)}
	}
	line.SetXAxis(xs).
		AddSeries("score", raw).
		AddSeries(fmt.Sprintf("mean(%d)", h.Window), avg)

	page := components.NewPage()
	page.AddCharts(line)
	return errors.Wrap(page.Render(w), "render chart")
}

// MovingAverage is the mean of scores[i-window+1 .. i], clipped at the start.
func MovingAverage(scores []float64, i, window int) float64 {
	if window <= 0 {
		window = 1
	}
	lo := i - window + 1
	if lo < 0 {
		lo = 0
	}
	return stat.Mean(scores[lo:i+1], nil)
}
