package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// speedBinKmh is the histogram bin width.
const speedBinKmh = 10.0

// WriteSpeedChart renders an HTML bar chart of the clip's speed
// distribution, one bar per 10 km/h bin.
func WriteSpeedChart(w io.Writer, doc *Document) error {
	bins := make(map[int]int)
	maxBin := 0
	for _, v := range doc.Vehicles {
		bin := int(math.Floor(v.SpeedKmh / speedBinKmh))
		bins[bin]++
		if bin > maxBin {
			maxBin = bin
		}
	}

	labels := make([]string, 0, maxBin+1)
	data := make([]opts.BarData, 0, maxBin+1)
	for bin := 0; bin <= maxBin; bin++ {
		labels = append(labels, fmt.Sprintf("%d-%d", bin*int(speedBinKmh), (bin+1)*int(speedBinKmh)))
		data = append(data, opts.BarData{Value: bins[bin]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Speed distribution: " + doc.Clip,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Speed distribution",
			Subtitle: fmt.Sprintf("clip=%s vehicles=%d", doc.Clip, doc.Stats.TotalVehicles),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "km/h"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "vehicles"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("vehicles", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("report: render chart for %s: %w", doc.Clip, err)
	}
	return nil
}
