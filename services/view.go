package services

import (
	"math"
	"sort"

	"howmuch-apple/models"
)

// ListingsPageSize is how many lowest-price listings one page shows.
const ListingsPageSize = 7

// ChangeRatePct is the percent change from the first to the last trend
// point, rounded to one decimal. Fewer than two points, or a zero first
// price, give 0.
func ChangeRatePct(points []models.TrendPoint) float64 {
	if len(points) < 2 || points[0].Price == 0 {
		return 0
	}
	first := float64(points[0].Price)
	last := float64(points[len(points)-1].Price)
	return round1((last - first) / first * 100)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// SortColumn is a sortable column of the district table.
type SortColumn string

const (
	SortNone  SortColumn = ""
	SortPrice SortColumn = "price"
	SortCount SortColumn = "count"
)

// ParseSortColumn accepts "price" and "count"; anything else is SortNone.
func ParseSortColumn(s string) SortColumn {
	switch SortColumn(s) {
	case SortPrice, SortCount:
		return SortColumn(s)
	}
	return SortNone
}

// DistrictSort is the table's sort state.
type DistrictSort struct {
	Column     SortColumn `json:"column"`
	Descending bool       `json:"descending"`
}

// Toggle returns the state after clicking column: the same column flips
// ascending to descending (and back), any other column starts ascending.
func (s DistrictSort) Toggle(column SortColumn) DistrictSort {
	if column == SortNone {
		return DistrictSort{}
	}
	if s.Column == column && !s.Descending {
		return DistrictSort{Column: column, Descending: true}
	}
	return DistrictSort{Column: column}
}

// Direction is "asc" or "desc".
func (s DistrictSort) Direction() string {
	if s.Descending {
		return "desc"
	}
	return "asc"
}

// SortDistricts returns a stably sorted copy of rows. SortNone keeps the
// backend order.
func SortDistricts(rows []models.DistrictPrice, s DistrictSort) []models.DistrictPrice {
	out := append([]models.DistrictPrice(nil), rows...)
	if s.Column == SortNone {
		return out
	}

	key := func(r models.DistrictPrice) int64 {
		if s.Column == SortCount {
			return int64(r.ListingCount)
		}
		return r.AvgPrice
	}
	sort.SliceStable(out, func(i, j int) bool {
		if s.Descending {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out
}

// DistrictExtremes holds the highest- and lowest-priced districts.
type DistrictExtremes struct {
	Highest models.DistrictPrice `json:"highest"`
	Lowest  models.DistrictPrice `json:"lowest"`
	// LowestRatioPct is the lowest average as a percentage of the highest,
	// used as the width of the lowest district's bar.
	LowestRatioPct float64 `json:"lowestRatioPct"`
	Found          bool    `json:"found"`
}

// FindDistrictExtremes scans rows once. On ties the first occurrence wins.
func FindDistrictExtremes(rows []models.DistrictPrice) DistrictExtremes {
	if len(rows) == 0 {
		return DistrictExtremes{}
	}
	hi, lo := rows[0], rows[0]
	for _, r := range rows[1:] {
		if r.AvgPrice > hi.AvgPrice {
			hi = r
		}
		if r.AvgPrice < lo.AvgPrice {
			lo = r
		}
	}
	ext := DistrictExtremes{Highest: hi, Lowest: lo, Found: true}
	if hi.AvgPrice > 0 {
		ext.LowestRatioPct = round1(float64(lo.AvgPrice) / float64(hi.AvgPrice) * 100)
	}
	return ext
}

// Page is one page of listings.
type Page struct {
	Number     int                    `json:"number"`
	TotalPages int                    `json:"totalPages"`
	Items      []models.LowestListing `json:"items"`
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Numbers lists 1..TotalPages for rendering page links.
func (p Page) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// TotalPages is ceil(n/size), at least 1.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate slices listings into page number (1-based). Out-of-range pages are
// clamped.
func Paginate(listings []models.LowestListing, number, size int) Page {
	total := TotalPages(len(listings), size)
	number = max(1, min(number, total))

	start := (number - 1) * size
	end := min(start+size, len(listings))
	items := []models.LowestListing{}
	if start < end {
		items = listings[start:end]
	}
	return Page{Number: number, TotalPages: total, Items: items}
}

// Pager keeps the current page for one listings array and resets to page 1
// whenever a different array is shown.
type Pager struct {
	size     int
	listings []models.LowestListing
	page     int
}

// NewPager creates a pager with the given page size.
func NewPager(size int) *Pager {
	return &Pager{size: size, page: 1}
}

// SetListings replaces the listings. A different array (by identity, not by
// content) resets the page to 1.
func (p *Pager) SetListings(listings []models.LowestListing) {
	if !sameSlice(p.listings, listings) {
		p.page = 1
	}
	p.listings = listings
}

// GoTo moves to page n if it exists.
func (p *Pager) GoTo(n int) {
	if n >= 1 && n <= TotalPages(len(p.listings), p.size) {
		p.page = n
	}
}

// Current returns the current page.
func (p *Pager) Current() Page {
	return Paginate(p.listings, p.page, p.size)
}

func sameSlice(a, b []models.LowestListing) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
