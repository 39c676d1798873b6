package models

// APIRequest is the body posted to the price backend.
type APIRequest struct {
	Product string            `json:"product"`
	Spec    map[string]string `json:"spec"`
	Region  map[string]string `json:"region"`
}

// Region keys of APIRequest.Region.
const (
	RegionKeyProvince = "sd"
	RegionKeyCity     = "sgg"
	RegionKeyDistrict = "emd"
)

// APIStatusSuccess is the only status that carries usable data.
const APIStatusSuccess = "success"

// APIResponse is the backend envelope.
type APIResponse struct {
	Status string               `json:"status"`
	Data   *PriceAnalysisResult `json:"data"`
}

// PriceAnalysisResult is the aggregated answer to one query. It is replaced
// wholesale on every new query.
type PriceAnalysisResult struct {
	Summary        PriceSummary     `json:"summary_info"`
	Regional       RegionalAnalysis `json:"regional_analysis"`
	Trend          PriceTrend       `json:"price_trend"`
	LowestListings []LowestListing  `json:"lowest_price_listings"`
}

// ByDistrict is shorthand for the per-district breakdown.
func (r *PriceAnalysisResult) ByDistrict() []DistrictPrice {
	return r.Regional.ByDistrict
}

// PriceSummary holds the headline figures for a query.
type PriceSummary struct {
	Model        string `json:"model_name"`
	AvgPrice     int64  `json:"average_price"`
	MinPrice     int64  `json:"lowest_listing_price"`
	MaxPrice     int64  `json:"highest_listing_price"`
	ListingCount int    `json:"listing_count"`
	AsOfDate     string `json:"data_date"`
}

type RegionalAnalysis struct {
	ByDistrict []DistrictPrice `json:"detail_by_district"`
}

// DistrictPrice is one row of the regional breakdown.
type DistrictPrice struct {
	District     string `json:"emd"`
	AvgPrice     int64  `json:"average_price"`
	ListingCount int    `json:"listing_count"`
}

// PriceTrend points are ordered oldest to newest.
type PriceTrend struct {
	PeriodCount   int          `json:"trend_period"`
	ChangeRatePct float64      `json:"change_rate"`
	Points        []TrendPoint `json:"chart_data"`
}

// TrendPoint is the average price for one period.
type TrendPoint struct {
	Label string `json:"period"`
	Price int64  `json:"price"`
}

// LowestListing is one of the cheapest listings found.
type LowestListing struct {
	Price         int64  `json:"listing_price"`
	LocationLabel string `json:"district_detail"`
	Source        string `json:"source"`
	SourceURL     string `json:"source_url"`
}
