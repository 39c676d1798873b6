package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"howmuch-apple/models"
)

// ReadRawListings parses an import CSV with the header
//
//	product,model,price,province,city,district,source,url,posted_at
//
// Columns are matched by name, in any order. model, price and url are required.
func ReadRawListings(r io.Reader) ([]*models.RawListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"model", "price", "url"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", required)
		}
	}

	var listings []*models.RawListing
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		listings = append(listings, &models.RawListing{
			Product:   field("product"),
			Model:     field("model"),
			RawPrice:  field("price"),
			Province:  field("province"),
			City:      field("city"),
			District:  field("district"),
			Source:    field("source"),
			SourceURL: field("url"),
			PostedAt:  field("posted_at"),
		})
	}
	return listings, nil
}

// WriteAnalysisCSV exports a result as three sections: the summary, the
// per-district breakdown and the lowest-priced listings.
func WriteAnalysisCSV(w io.Writer, r *models.PriceAnalysisResult) error {
	cw := csv.NewWriter(w)
	s := r.Summary
	itoa := func(v int64) string { return strconv.FormatInt(v, 10) }

	rows := [][]string{
		{"model", "average_price", "lowest_price", "highest_price", "listing_count", "data_date"},
		{s.Model, itoa(s.AvgPrice), itoa(s.MinPrice), itoa(s.MaxPrice), strconv.Itoa(s.ListingCount), s.AsOfDate},
		{},
		{"district", "average_price", "listing_count"},
	}
	for _, d := range r.Regional.ByDistrict {
		rows = append(rows, []string{d.District, itoa(d.AvgPrice), strconv.Itoa(d.ListingCount)})
	}
	rows = append(rows, []string{}, []string{"price", "location", "source", "url"})
	for _, l := range r.LowestListings {
		rows = append(rows, []string{itoa(l.Price), l.LocationLabel, l.Source, l.SourceURL})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
