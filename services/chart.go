package services

import "howmuch-apple/models"

// PlotRect is the drawable area of the trend chart inside a 600x200 viewBox.
type PlotRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right edge of the rectangle.
func (r PlotRect) Right() float64 { return r.Left + r.Width }

// Bottom edge of the rectangle.
func (r PlotRect) Bottom() float64 { return r.Top + r.Height }

// DefaultPlotRect matches the results page's SVG.
var DefaultPlotRect = PlotRect{Left: 60, Top: 20, Width: 500, Height: 140}

const chartTickCount = 5

// ChartPoint is one trend point in SVG coordinates.
type ChartPoint struct {
	Label string  `json:"label"`
	Price int64   `json:"price"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// ChartTick is a y-axis label and its vertical position.
type ChartTick struct {
	Value float64 `json:"value"`
	Y     float64 `json:"y"`
}

// ChartLayout is the geometry of the trend line chart.
type ChartLayout struct {
	Rect    PlotRect     `json:"rect"`
	Points  []ChartPoint `json:"points"`
	Ticks   []ChartTick  `json:"ticks"`
	Min     int64        `json:"min"`
	Max     int64        `json:"max"`
	Padding float64      `json:"padding"`
}

// LayoutChart maps trend points into rect. The y scale spans
// [min-padding, max+padding] with padding = 10% of the range; higher prices
// sit higher (smaller y). A flat series collapses to the vertical centre and
// a single point sits at the horizontal centre. Ticks run top to bottom.
func LayoutChart(points []models.TrendPoint, rect PlotRect) ChartLayout {
	layout := ChartLayout{Rect: rect, Points: []ChartPoint{}, Ticks: []ChartTick{}}
	if len(points) == 0 {
		return layout
	}

	lo, hi := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		lo = min(lo, p.Price)
		hi = max(hi, p.Price)
	}
	rng := float64(hi - lo)
	padding := rng * 0.1
	floor := float64(lo) - padding
	span := rng + 2*padding

	layout.Min, layout.Max, layout.Padding = lo, hi, padding

	n := len(points)
	for i, p := range points {
		x := rect.Left + rect.Width/2
		if n > 1 {
			x = rect.Left + float64(i)/float64(n-1)*rect.Width
		}
		y := rect.Top + rect.Height/2
		if span > 0 {
			y = rect.Top + (1-(float64(p.Price)-floor)/span)*rect.Height
		}
		layout.Points = append(layout.Points, ChartPoint{Label: p.Label, Price: p.Price, X: x, Y: y})
	}

	for i := 0; i < chartTickCount; i++ {
		frac := float64(i) / float64(chartTickCount-1)
		layout.Ticks = append(layout.Ticks, ChartTick{
			Value: float64(hi) + padding - span*frac,
			Y:     rect.Top + rect.Height*frac,
		})
	}
	return layout
}
