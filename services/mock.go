package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"sync"
	"time"

	"howmuch-apple/models"
	"howmuch-apple/utils"
)

const (
	mockTrendWeeks    = 7
	mockListingCount  = 12
	mockDefaultModel  = "iPhone 16 Pro"
	mockPriceRounding = 1000
)

// mockBasePrices are rough used prices per product, in won.
var mockBasePrices = map[string]int64{
	"iPhone":     1_250_000,
	"iPad":       820_000,
	"MacBook":    1_450_000,
	"AppleWatch": 380_000,
	"AirPods":    190_000,
}

// fallbackDistricts are used only when the directory has nothing to offer.
var fallbackDistricts = []string{"신림동", "봉천동", "남현동", "사당동", "대학동"}

type mockSource struct {
	name string
	url  string
}

var mockSources = []mockSource{
	{"당근마켓", "https://www.daangn.com/articles/%d"},
	{"번개장터", "https://m.bunjang.co.kr/products/%d"},
	{"중고나라", "https://web.joongna.com/product/%d"},
}

// MockAnalyzer synthesises results with a fixed shape and random values. The
// rows of the district breakdown come from the region directory, so they
// always match the selected city (or province).
type MockAnalyzer struct {
	directory *RegionDirectory
	logger    *utils.Logger
	now       func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockAnalyzer creates a generator. seed 0 picks a time-based seed.
func NewMockAnalyzer(directory *RegionDirectory, seed int64, logger *utils.Logger) *MockAnalyzer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockAnalyzer{
		directory: directory,
		logger:    logger,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(seed)),
	}
}

func (m *MockAnalyzer) FetchPriceAnalysis(ctx context.Context, req models.APIRequest) (*models.PriceAnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model := req.Spec["model"]
	if model == "" {
		model = mockDefaultModel
	}
	province := req.Region[models.RegionKeyProvince]
	city := req.Region[models.RegionKeyCity]
	rows := m.rowNames(province, city)

	m.mu.Lock()
	defer m.mu.Unlock()

	base := m.basePrice(req.Product, model)
	now := m.now()

	result := &models.PriceAnalysisResult{}
	result.Regional.ByDistrict = m.districtRows(rows, base)
	result.LowestListings = m.lowestListings(result.Regional.ByDistrict, city)
	result.Trend = m.trend(base, now)
	result.Summary = summarise(model, result, now)

	m.logger.Debug("[mock] %s %s: %d rows, %d listings", req.Product, model,
		len(result.Regional.ByDistrict), result.Summary.ListingCount)
	return result, nil
}

// rowNames picks the breakdown rows: the districts of the selected city, the
// cities of a selected province, or every province.
func (m *MockAnalyzer) rowNames(province, city string) []string {
	var names []string
	switch {
	case city != "":
		names = m.directory.Districts(province, city)
	case province != "":
		names = m.directory.Cities(province)
	default:
		names = m.directory.Provinces()
	}
	if len(names) == 0 {
		return fallbackDistricts
	}
	return names
}

func (m *MockAnalyzer) basePrice(product, model string) int64 {
	base, ok := mockBasePrices[product]
	if !ok {
		base = 500_000
	}
	h := fnv.New32a()
	h.Write([]byte(model))
	// Spread models of one product over roughly -15%..+15%.
	offset := float64(h.Sum32()%31)/100 - 0.15
	return roundWon(float64(base) * (1 + offset))
}

func (m *MockAnalyzer) districtRows(names []string, base int64) []models.DistrictPrice {
	rows := make([]models.DistrictPrice, len(names))
	for i, name := range names {
		variance := (m.rnd.Float64()*2 - 1) * 0.08
		rows[i] = models.DistrictPrice{
			District:     name,
			AvgPrice:     roundWon(float64(base) * (1 + variance)),
			ListingCount: 5 + m.rnd.Intn(26),
		}
	}
	return rows
}

func (m *MockAnalyzer) lowestListings(rows []models.DistrictPrice, city string) []models.LowestListing {
	out := make([]models.LowestListing, 0, mockListingCount)
	for i := 0; i < mockListingCount; i++ {
		row := rows[m.rnd.Intn(len(rows))]
		discount := 0.85 + m.rnd.Float64()*0.1
		src := mockSources[i%len(mockSources)]

		label := row.District
		if city != "" {
			label = city + " " + row.District
		}
		out = append(out, models.LowestListing{
			Price:         roundWon(float64(row.AvgPrice) * discount),
			LocationLabel: label,
			Source:        src.name,
			SourceURL:     fmt.Sprintf(src.url, 10000+m.rnd.Intn(90000)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

func (m *MockAnalyzer) trend(base int64, now time.Time) models.PriceTrend {
	points := make([]models.TrendPoint, mockTrendWeeks)
	level := float64(base) * (1.02 + m.rnd.Float64()*0.06)
	for i := 0; i < mockTrendWeeks; i++ {
		week := now.AddDate(0, 0, -7*(mockTrendWeeks-1-i))
		points[i] = models.TrendPoint{Label: WeekLabel(week), Price: roundWon(level)}
		level *= 1 + (m.rnd.Float64()*2-1)*0.025 - 0.006
	}
	return models.PriceTrend{
		PeriodCount:   mockTrendWeeks,
		ChangeRatePct: ChangeRatePct(points),
		Points:        points,
	}
}

// summarise derives the headline numbers from the breakdown and listings so
// the listing count always equals the sum of the per-district counts.
func summarise(model string, r *models.PriceAnalysisResult, now time.Time) models.PriceSummary {
	s := models.PriceSummary{Model: model, AsOfDate: now.Format("2006-01-02 15:04")}

	var weighted float64
	for _, row := range r.Regional.ByDistrict {
		s.ListingCount += row.ListingCount
		weighted += float64(row.AvgPrice) * float64(row.ListingCount)
		s.MaxPrice = max(s.MaxPrice, roundWon(float64(row.AvgPrice)*1.12))
	}
	if s.ListingCount > 0 {
		s.AvgPrice = roundWon(weighted / float64(s.ListingCount))
	}
	if len(r.LowestListings) > 0 {
		s.MinPrice = r.LowestListings[0].Price
	}
	return s
}

// WeekLabel renders "1월 2주" style labels: month and week-of-month.
func WeekLabel(t time.Time) string {
	return fmt.Sprintf("%d월 %d주", int(t.Month()), (t.Day()-1)/7+1)
}

func roundWon(v float64) int64 {
	return int64(v/mockPriceRounding+0.5) * mockPriceRounding
}
