package services

import (
	"fmt"
	"testing"

	"howmuch-apple/models"
)

func sampleDistricts() []models.DistrictPrice {
	return []models.DistrictPrice{
		{District: "강남구", AvgPrice: 1350000, ListingCount: 25},
		{District: "마포구", AvgPrice: 1280000, ListingCount: 18},
		{District: "영등포구", AvgPrice: 1230000, ListingCount: 22},
		{District: "관악구", AvgPrice: 1180000, ListingCount: 31},
		{District: "서초구", AvgPrice: 1350000, ListingCount: 15},
		{District: "동작구", AvgPrice: 1200000, ListingCount: 20},
	}
}

func names(rows []models.DistrictPrice) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.District
	}
	return out
}

func TestSortToggle(t *testing.T) {
	var s DistrictSort
	s = s.Toggle(SortPrice)
	if s != (DistrictSort{Column: SortPrice}) {
		t.Errorf("first click should sort ascending, got %+v", s)
	}
	s = s.Toggle(SortPrice)
	if !s.Descending || s.Direction() != "desc" {
		t.Errorf("second click should sort descending, got %+v", s)
	}
	s = s.Toggle(SortPrice)
	if s.Descending {
		t.Errorf("third click should return to ascending, got %+v", s)
	}
	s = DistrictSort{Column: SortPrice, Descending: true}.Toggle(SortCount)
	if s != (DistrictSort{Column: SortCount}) {
		t.Errorf("another column should start ascending, got %+v", s)
	}
}

func TestSortDistrictsPriceAscThenDescIsReversed(t *testing.T) {
	rows := []models.DistrictPrice{
		{District: "a", AvgPrice: 3}, {District: "b", AvgPrice: 1}, {District: "c", AvgPrice: 2},
	}
	asc := names(SortDistricts(rows, DistrictSort{Column: SortPrice}))
	desc := names(SortDistricts(rows, DistrictSort{Column: SortPrice, Descending: true}))
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("asc %v is not the reverse of desc %v", asc, desc)
		}
	}
}

func TestSortDistrictsIsStable(t *testing.T) {
	got := names(SortDistricts(sampleDistricts(), DistrictSort{Column: SortPrice, Descending: true}))
	// 강남구 and 서초구 tie; input order is kept.
	if got[0] != "강남구" || got[1] != "서초구" {
		t.Errorf("tie order not preserved: %v", got)
	}
	got = names(SortDistricts(sampleDistricts(), DistrictSort{Column: SortPrice}))
	if got[4] != "강남구" || got[5] != "서초구" {
		t.Errorf("tie order not preserved ascending: %v", got)
	}
}

func TestSortDistrictsByCountAndNone(t *testing.T) {
	rows := sampleDistricts()
	got := SortDistricts(rows, DistrictSort{Column: SortCount, Descending: true})
	if got[0].District != "관악구" {
		t.Errorf("highest count first: got %v", names(got))
	}
	none := SortDistricts(rows, DistrictSort{})
	if fmt.Sprint(names(none)) != fmt.Sprint(names(rows)) {
		t.Errorf("SortNone should keep order")
	}
	if &none[0] == &rows[0] {
		t.Error("SortDistricts must return a copy")
	}
}

func TestFindDistrictExtremes(t *testing.T) {
	ext := FindDistrictExtremes(sampleDistricts())
	if !ext.Found {
		t.Fatal("expected extremes")
	}
	if ext.Highest.District != "강남구" {
		t.Errorf("first occurrence should win ties, got %q", ext.Highest.District)
	}
	if ext.Lowest.District != "관악구" {
		t.Errorf("Lowest: got %q", ext.Lowest.District)
	}
	if ext.LowestRatioPct != 87.4 {
		t.Errorf("LowestRatioPct: got %.1f, want 87.4", ext.LowestRatioPct)
	}
	if FindDistrictExtremes(nil).Found {
		t.Error("no rows means no extremes")
	}
}

func TestChangeRatePct(t *testing.T) {
	points := []models.TrendPoint{{Price: 1320000}, {Price: 1250000}, {Price: 1260000}}
	if got := ChangeRatePct(points); got != -4.5 {
		t.Errorf("ChangeRatePct: got %.1f, want -4.5", got)
	}
	if got := ChangeRatePct(points[:1]); got != 0 {
		t.Errorf("single point: got %.1f", got)
	}
	if got := ChangeRatePct([]models.TrendPoint{{Price: 0}, {Price: 10}}); got != 0 {
		t.Errorf("zero first price: got %.1f", got)
	}
}

func listingsOf(n int) []models.LowestListing {
	out := make([]models.LowestListing, n)
	for i := range out {
		out[i] = models.LowestListing{Price: int64(1000 * (i + 1))}
	}
	return out
}

func TestPaginateSeventeenListings(t *testing.T) {
	all := listingsOf(17)
	var sizes []int
	for n := 1; n <= TotalPages(len(all), ListingsPageSize); n++ {
		sizes = append(sizes, len(Paginate(all, n, ListingsPageSize).Items))
	}
	if fmt.Sprint(sizes) != "[7 7 3]" {
		t.Errorf("page sizes: got %v, want [7 7 3]", sizes)
	}
}

func TestPaginateClampsAndFlags(t *testing.T) {
	all := listingsOf(17)
	p := Paginate(all, 99, ListingsPageSize)
	if p.Number != 3 || p.HasNext() || !p.HasPrev() {
		t.Errorf("clamped page: %+v", p)
	}
	p = Paginate(nil, 1, ListingsPageSize)
	if p.TotalPages != 1 || len(p.Items) != 0 || p.HasNext() {
		t.Errorf("empty listings: %+v", p)
	}
	if got := Paginate(all, 1, ListingsPageSize).Numbers(); fmt.Sprint(got) != "[1 2 3]" {
		t.Errorf("Numbers: got %v", got)
	}
}

func TestPagerResetsOnNewListings(t *testing.T) {
	p := NewPager(ListingsPageSize)
	first := listingsOf(17)
	p.SetListings(first)
	p.GoTo(3)
	if p.Current().Number != 3 {
		t.Fatalf("GoTo(3) failed: %d", p.Current().Number)
	}

	p.SetListings(first)
	if p.Current().Number != 3 {
		t.Errorf("same listings should keep the page, got %d", p.Current().Number)
	}

	p.SetListings(listingsOf(17))
	if p.Current().Number != 1 {
		t.Errorf("new listings should reset to page 1, got %d", p.Current().Number)
	}

	p.GoTo(9)
	if p.Current().Number != 1 {
		t.Errorf("out-of-range GoTo should be ignored, got %d", p.Current().Number)
	}
}
