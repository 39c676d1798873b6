package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/unicode/norm"

	"howmuch-apple/models"
)

const (
	sejongProvince = "세종특별자치시"
	sejongCity     = "세종시"
)

// adminAreaRegexp splits "서울특별시 종로구 청운효자동(1111051500)" into name and code.
var adminAreaRegexp = regexp.MustCompile(`^(.*)\((\d+)\)$`)

// ReadPopulationRegions builds the region directory from the monthly resident
// population CSV (주민등록인구및세대현황). Only district rows are used: codes
// whose last five digits are zero name a province or a city and are skipped.
// Sejong has no city level, so its districts go under 세종시. The input may be
// UTF-8 or EUC-KR. Provinces, cities and districts come out sorted.
func ReadPopulationRegions(r io.Reader) ([]models.RegionNode, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("regions: read: %w", err)
	}
	if !utf8.Valid(raw) {
		if raw, err = korean.EUCKR.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("regions: decode EUC-KR: %w", err)
		}
	}
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("regions: empty file")
		}
		return nil, fmt.Errorf("regions: read header: %w", err)
	}

	tree := make(map[string]map[string]map[string]struct{})
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("regions: line %d: %w", line, err)
		}
		if len(rec) == 0 {
			continue
		}
		province, city, district, ok := splitAdminArea(rec[0])
		if !ok {
			continue
		}
		if tree[province] == nil {
			tree[province] = make(map[string]map[string]struct{})
		}
		if tree[province][city] == nil {
			tree[province][city] = make(map[string]struct{})
		}
		tree[province][city][district] = struct{}{}
	}
	if len(tree) == 0 {
		return nil, errors.New("regions: no district rows found")
	}

	nodes := make([]models.RegionNode, 0, len(tree))
	for _, province := range sortedKeys(tree) {
		node := models.RegionNode{Name: province}
		for _, city := range sortedKeys(tree[province]) {
			node.Cities = append(node.Cities, models.CityNode{
				Name:      city,
				Districts: sortedKeys(tree[province][city]),
			})
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func splitAdminArea(cell string) (province, city, district string, ok bool) {
	m := adminAreaRegexp.FindStringSubmatch(strings.TrimSpace(norm.NFC.String(cell)))
	if m == nil || strings.HasSuffix(m[2], "00000") {
		return "", "", "", false
	}
	parts := strings.Fields(m[1])
	if len(parts) < 2 {
		return "", "", "", false
	}

	province, district = parts[0], parts[len(parts)-1]
	if province == sejongProvince {
		return province, sejongCity, district, true
	}
	if len(parts) < 3 {
		return "", "", "", false
	}
	return province, strings.Join(parts[1:len(parts)-1], " "), district, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteRegionsJSON writes the directory in the layout LoadRegionDirectory reads.
func WriteRegionsJSON(w io.Writer, nodes []models.RegionNode) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nodes); err != nil {
		return fmt.Errorf("regions: encode: %w", err)
	}
	return nil
}
