package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"howmuch-apple/models"
	"howmuch-apple/storage"
	"howmuch-apple/utils"
)

const (
	storedTrendWeeks    = 7
	storedLowestListing = 20
)

// StoredAnalyzer answers analysis requests from imported listings instead of
// the remote backend.
type StoredAnalyzer struct {
	source storage.ListingReader
	logger *utils.Logger
	now    func() time.Time
}

func NewStoredAnalyzer(source storage.ListingReader, logger *utils.Logger) *StoredAnalyzer {
	return &StoredAnalyzer{source: source, logger: logger, now: time.Now}
}

func (s *StoredAnalyzer) FetchPriceAnalysis(ctx context.Context, req models.APIRequest) (*models.PriceAnalysisResult, error) {
	filter := models.ListingFilter{
		Product:  req.Product,
		Model:    req.Spec["model"],
		Province: req.Region[models.RegionKeyProvince],
		City:     req.Region[models.RegionKeyCity],
		District: req.Region[models.RegionKeyDistrict],
	}
	listings, err := s.source.FetchMatching(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(listings) == 0 {
		return nil, ErrEmptyResult
	}
	s.logger.Debug("[stored] %d listings for %s %s", len(listings), filter.Product, filter.Model)
	return AggregateListings(filter, listings, s.now()), nil
}

// AggregateListings builds an analysis from raw listings. Rows of the
// breakdown are one level below the filter's deepest region (districts of a
// city, cities of a province, provinces otherwise). Listings without a price
// are ignored.
func AggregateListings(filter models.ListingFilter, listings []*models.Listing, now time.Time) *models.PriceAnalysisResult {
	priced := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price > 0 {
			priced = append(priced, l)
		}
	}

	result := &models.PriceAnalysisResult{
		Summary: models.PriceSummary{Model: filter.Model, AsOfDate: now.Format("2006-01-02 15:04")},
	}
	result.Regional.ByDistrict = []models.DistrictPrice{}
	result.LowestListings = []models.LowestListing{}
	result.Trend = models.PriceTrend{PeriodCount: storedTrendWeeks, Points: []models.TrendPoint{}}
	if len(priced) == 0 {
		return result
	}

	// Summary
	var total int64
	result.Summary.MinPrice = priced[0].Price
	for _, l := range priced {
		total += l.Price
		result.Summary.MinPrice = min(result.Summary.MinPrice, l.Price)
		result.Summary.MaxPrice = max(result.Summary.MaxPrice, l.Price)
	}
	result.Summary.ListingCount = len(priced)
	result.Summary.AvgPrice = roundAvg(total, len(priced))
	if result.Summary.Model == "" {
		result.Summary.Model = priced[0].Model
	}

	result.Regional.ByDistrict = groupByRegion(priced, rowLevel(filter))
	result.Trend = weeklyTrend(priced, now)

	sorted := append([]*models.Listing(nil), priced...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	for _, l := range sorted[:min(len(sorted), storedLowestListing)] {
		result.LowestListings = append(result.LowestListings, models.LowestListing{
			Price:         l.Price,
			LocationLabel: l.LocationLabel(),
			Source:        l.Source,
			SourceURL:     l.SourceURL,
		})
	}
	return result
}

func rowLevel(f models.ListingFilter) models.RegionLevel {
	switch {
	case f.City != "":
		return models.LevelDistrict
	case f.Province != "":
		return models.LevelCity
	default:
		return models.LevelProvince
	}
}

func groupByRegion(listings []*models.Listing, level models.RegionLevel) []models.DistrictPrice {
	type acc struct {
		sum   int64
		count int
	}
	groups := make(map[string]*acc)
	var order []string
	for _, l := range listings {
		name := l.Province
		switch level {
		case models.LevelDistrict:
			name = l.District
		case models.LevelCity:
			name = l.City
		}
		if name == "" {
			continue
		}
		g, ok := groups[name]
		if !ok {
			g = &acc{}
			groups[name] = g
			order = append(order, name)
		}
		g.sum += l.Price
		g.count++
	}
	sort.Strings(order)

	rows := make([]models.DistrictPrice, 0, len(order))
	for _, name := range order {
		g := groups[name]
		rows = append(rows, models.DistrictPrice{
			District:     name,
			AvgPrice:     roundAvg(g.sum, g.count),
			ListingCount: g.count,
		})
	}
	return rows
}

// weeklyTrend averages listings per week over the last storedTrendWeeks
// weeks ending at now. Weeks without listings are skipped.
func weeklyTrend(listings []*models.Listing, now time.Time) models.PriceTrend {
	var sums [storedTrendWeeks]int64
	var counts [storedTrendWeeks]int
	for _, l := range listings {
		age := now.Sub(l.PostedAt)
		if age < 0 {
			age = 0
		}
		week := int(age / (7 * 24 * time.Hour))
		if week >= storedTrendWeeks {
			continue
		}
		idx := storedTrendWeeks - 1 - week
		sums[idx] += l.Price
		counts[idx]++
	}

	points := []models.TrendPoint{}
	for i := 0; i < storedTrendWeeks; i++ {
		if counts[i] == 0 {
			continue
		}
		week := now.AddDate(0, 0, -7*(storedTrendWeeks-1-i))
		points = append(points, models.TrendPoint{
			Label: WeekLabel(week),
			Price: roundAvg(sums[i], counts[i]),
		})
	}
	return models.PriceTrend{
		PeriodCount:   storedTrendWeeks,
		ChangeRatePct: ChangeRatePct(points),
		Points:        points,
	}
}

// PrintReport writes a terminal summary of an analysis.
func PrintReport(w io.Writer, r *models.PriceAnalysisResult) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 %s 시세\033[0m\n", r.Summary.Model)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings      : \033[1m%d\033[0m\n", r.Summary.ListingCount)
	fmt.Fprintf(w, "  Average price : \033[1;32m%s\033[0m\n", FormatWon(r.Summary.AvgPrice))
	fmt.Fprintf(w, "  Lowest price  : \033[1;32m%s\033[0m\n", FormatWon(r.Summary.MinPrice))
	fmt.Fprintf(w, "  Highest price : \033[1;32m%s\033[0m\n", FormatWon(r.Summary.MaxPrice))
	fmt.Fprintf(w, "  As of         : %s\n\n", r.Summary.AsOfDate)

	fmt.Fprintf(w, "\033[1;33m  By region\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Regional.ByDistrict) == 0 {
		fmt.Fprintf(w, "  No regional data\n")
	}
	for _, d := range SortDistricts(r.Regional.ByDistrict, DistrictSort{Column: SortCount, Descending: true}) {
		bar := strings.Repeat("█", min(d.ListingCount, 30))
		fmt.Fprintf(w, "  %-16s %12s %s (%d)\n", truncate(d.District, 16), FormatWon(d.AvgPrice), bar, d.ListingCount)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Trend (%+.1f%%)\033[0m\n", r.Trend.ChangeRatePct)
	fmt.Fprintf(w, "  %s\n", thin)
	for _, p := range r.Trend.Points {
		fmt.Fprintf(w, "  %-10s %12s\n", p.Label, FormatWon(p.Price))
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// roundAvg is sum/n rounded to the nearest won.
func roundAvg(sum int64, n int) int64 {
	return int64(math.Round(float64(sum) / float64(n)))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
