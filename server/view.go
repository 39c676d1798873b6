package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"howmuch-apple/models"
	"howmuch-apple/services"
)

// ViewState is the navigation state of a results page. It travels in a
// hidden form field so sorting, paging and export never re-fetch.
type ViewState struct {
	Query  models.QuerySpec            `json:"query"`
	Result *models.PriceAnalysisResult `json:"result"`
	Sort   services.DistrictSort       `json:"sort"`
	Page   int                         `json:"page"`
}

var errNoState = errors.New("no navigation state")

// Encode packs the state for a hidden input.
func (v ViewState) Encode() (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode view state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeViewState reverses Encode. A blank value is errNoState.
func DecodeViewState(s string) (ViewState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ViewState{}, errNoState
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ViewState{}, fmt.Errorf("decode view state: %w", err)
	}
	var v ViewState
	if err := json.Unmarshal(raw, &v); err != nil {
		return ViewState{}, fmt.Errorf("decode view state: %w", err)
	}
	if v.Result == nil {
		return ViewState{}, errNoState
	}
	return v, nil
}

// ResultsView is everything the results page and the analysis API render.
type ResultsView struct {
	Query         models.QuerySpec            `json:"query"`
	CategoryLabel string                      `json:"categoryLabel"`
	Model         string                      `json:"model"`
	Location      string                      `json:"location"`
	Summary       models.PriceSummary         `json:"summary"`
	Districts     []models.DistrictPrice      `json:"districts"`
	Sort          services.DistrictSort       `json:"sort"`
	Extremes      services.DistrictExtremes   `json:"extremes"`
	Trend         models.PriceTrend           `json:"trend"`
	Chart         services.ChartLayout        `json:"chart"`
	Listings      services.Page               `json:"listings"`
	Result        *models.PriceAnalysisResult `json:"-"`
}

// BuildResultsView derives the sorted table, chart, extremes and the current
// listings page from a state.
func BuildResultsView(state ViewState) ResultsView {
	r := state.Result
	pager := services.NewPager(services.ListingsPageSize)
	pager.SetListings(r.LowestListings)
	pager.GoTo(state.Page)

	model := r.Summary.Model
	if model == "" {
		model = state.Query.ModelName()
	}

	return ResultsView{
		Query:         state.Query,
		CategoryLabel: state.Query.Category.Label(),
		Model:         model,
		Location:      services.LocationDisplayName(state.Query.Region),
		Summary:       r.Summary,
		Districts:     services.SortDistricts(r.Regional.ByDistrict, state.Sort),
		Sort:          state.Sort,
		Extremes:      services.FindDistrictExtremes(r.Regional.ByDistrict),
		Trend:         r.Trend,
		Chart:         services.LayoutChart(r.Trend.Points, services.DefaultPlotRect),
		Listings:      pager.Current(),
		Result:        r,
	}
}

// PolylinePoints renders chart points as an SVG points attribute.
func (v ResultsView) PolylinePoints() string {
	parts := make([]string, len(v.Chart.Points))
	for i, p := range v.Chart.Points {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// SortIndicator is the arrow shown next to a column header.
func (v ResultsView) SortIndicator(column string) string {
	if string(v.Sort.Column) != column {
		return ""
	}
	if v.Sort.Descending {
		return "▼"
	}
	return "▲"
}

// BarPct is the bar width of a row relative to the highest district.
func (v ResultsView) BarPct(row models.DistrictPrice) float64 {
	if v.Extremes.Highest.AvgPrice <= 0 {
		return 0
	}
	return float64(row.AvgPrice) / float64(v.Extremes.Highest.AvgPrice) * 100
}
