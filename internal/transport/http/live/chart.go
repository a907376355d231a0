package livehttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"livedesk/internal/logger"
)

// handleChart renders the closed-trade cumulative profit curve as a
// standalone HTML page. Data comes from the same snapshot read the JSON
// endpoints use; nothing is cached.
func (r *Router) handleChart(c *gin.Context) {
	records := r.History.List()

	// List is newest-first; the curve reads oldest-first.
	labels := make([]string, 0, len(records))
	points := make([]opts.LineData, 0, len(records))
	var cumulative float64
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.Profit == nil {
			continue
		}
		cumulative += *rec.Profit
		label := rec.TimeDone
		if label == "" {
			label = rec.Key
		}
		labels = append(labels, label)
		points = append(points, opts.LineData{Value: cumulative})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Closed trades",
			Subtitle: "cumulative profit",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	line.SetXAxis(labels).AddSeries("profit", points)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(c.Writer); err != nil {
		logger.Warnf("chart render failed: %v", err)
	}
}
