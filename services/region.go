package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/unicode/norm"

	"howmuch-apple/models"
	"howmuch-apple/utils"
)

var (
	// ErrDirectoryUnavailable means the region dataset failed to load; region
	// selection stays disabled until the process is restarted.
	ErrDirectoryUnavailable = errors.New("region directory unavailable")
	// ErrUnknownRegion means a name is not a child of the selected ancestor.
	ErrUnknownRegion = errors.New("unknown region")
)

// provinceAliases maps short province codes onto their official names.
var provinceAliases = map[string]string{
	"seoul":     "서울특별시",
	"gyeonggi":  "경기도",
	"incheon":   "인천광역시",
	"busan":     "부산광역시",
	"daegu":     "대구광역시",
	"gwangju":   "광주광역시",
	"daejeon":   "대전광역시",
	"ulsan":     "울산광역시",
	"sejong":    "세종특별자치시",
	"gangwon":   "강원특별자치도",
	"chungbuk":  "충청북도",
	"chungnam":  "충청남도",
	"jeonbuk":   "전북특별자치도",
	"jeonnam":   "전라남도",
	"gyeongbuk": "경상북도",
	"gyeongnam": "경상남도",
	"jeju":      "제주특별자치도",

	// Names in use before the special self-governing provinces were created.
	"강원도":  "강원특별자치도",
	"전라북도": "전북특별자치도",
}

// RegionDirectory is the province → city → district dataset. It is loaded
// once and never mutated afterwards, so it is safe for concurrent reads.
type RegionDirectory struct {
	provinces []models.RegionNode
	err       error
}

// NewRegionDirectory wraps an already-decoded dataset. Names are normalised to NFC.
func NewRegionDirectory(provinces []models.RegionNode) *RegionDirectory {
	out := make([]models.RegionNode, len(provinces))
	for i, p := range provinces {
		node := models.RegionNode{Name: normName(p.Name), Cities: make([]models.CityNode, len(p.Cities))}
		for j, c := range p.Cities {
			city := models.CityNode{Name: normName(c.Name), Districts: make([]string, len(c.Districts))}
			for k, d := range c.Districts {
				city.Districts[k] = normName(d)
			}
			node.Cities[j] = city
		}
		out[i] = node
	}
	return &RegionDirectory{provinces: out}
}

// FailedRegionDirectory records a load failure.
func FailedRegionDirectory(err error) *RegionDirectory {
	return &RegionDirectory{err: err}
}

// LoadRegionDirectory issues one read of the dataset at source. It never
// returns nil: on failure the directory carries the error and reports not ready.
func LoadRegionDirectory(ctx context.Context, client *http.Client, source string, logger *utils.Logger) *RegionDirectory {
	var provinces []models.RegionNode
	if err := readStaticJSON(ctx, client, source, &provinces); err != nil {
		logger.Error("[regions] Load failed: %v", err)
		return FailedRegionDirectory(err)
	}

	dir := NewRegionDirectory(provinces)
	cities, districts := 0, 0
	for _, p := range dir.provinces {
		cities += len(p.Cities)
		for _, c := range p.Cities {
			districts += len(c.Districts)
		}
	}
	logger.Info("[regions] Loaded %d provinces, %d cities, %d districts from %s",
		len(dir.provinces), cities, districts, source)
	return dir
}

// Ready reports whether the dataset loaded.
func (d *RegionDirectory) Ready() bool {
	return d != nil && d.err == nil
}

// Err returns the load error, wrapped in ErrDirectoryUnavailable.
func (d *RegionDirectory) Err() error {
	if d == nil {
		return ErrDirectoryUnavailable
	}
	if d.err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, d.err)
	}
	return nil
}

// All returns the full tree.
func (d *RegionDirectory) All() []models.RegionNode {
	if !d.Ready() {
		return nil
	}
	return d.provinces
}

// Provinces lists province names in dataset order.
func (d *RegionDirectory) Provinces() []string {
	if !d.Ready() {
		return nil
	}
	names := make([]string, len(d.provinces))
	for i, p := range d.provinces {
		names[i] = p.Name
	}
	return names
}

// Cities lists the cities of province, or nil when province is unknown.
func (d *RegionDirectory) Cities(province string) []string {
	p := d.province(province)
	if p == nil {
		return nil
	}
	names := make([]string, len(p.Cities))
	for i, c := range p.Cities {
		names[i] = c.Name
	}
	return names
}

// Districts lists the districts of city within province.
func (d *RegionDirectory) Districts(province, city string) []string {
	c := d.city(province, city)
	if c == nil {
		return nil
	}
	return c.Districts
}

// ResolveProvince maps a province code alias (e.g. "seoul") to its official
// name. Names already in the directory pass through unchanged.
func (d *RegionDirectory) ResolveProvince(name string) string {
	name = normName(name)
	if d.province(name) != nil {
		return name
	}
	if official, ok := provinceAliases[strings.ToLower(name)]; ok {
		return official
	}
	return name
}

// Validate checks that every chosen level exists under its ancestor.
func (d *RegionDirectory) Validate(sel models.RegionSelection) error {
	if !d.Ready() {
		return d.Err()
	}
	if sel.Province == "" {
		return nil
	}
	if d.province(sel.Province) == nil {
		return fmt.Errorf("%w: province %q", ErrUnknownRegion, sel.Province)
	}
	if sel.City == "" {
		return nil
	}
	c := d.city(sel.Province, sel.City)
	if c == nil {
		return fmt.Errorf("%w: city %q in %q", ErrUnknownRegion, sel.City, sel.Province)
	}
	if sel.District == "" {
		return nil
	}
	want := normName(sel.District)
	for _, name := range c.Districts {
		if name == want {
			return nil
		}
	}
	return fmt.Errorf("%w: district %q in %q", ErrUnknownRegion, sel.District, sel.City)
}

func (d *RegionDirectory) province(name string) *models.RegionNode {
	if !d.Ready() || name == "" {
		return nil
	}
	name = normName(name)
	for i := range d.provinces {
		if d.provinces[i].Name == name {
			return &d.provinces[i]
		}
	}
	return nil
}

func (d *RegionDirectory) city(province, city string) *models.CityNode {
	p := d.province(province)
	if p == nil || city == "" {
		return nil
	}
	city = normName(city)
	for i := range p.Cities {
		if p.Cities[i].Name == city {
			return &p.Cities[i]
		}
	}
	return nil
}

// LocationDisplayName picks the most specific chosen level for headings.
// A bare 서울특별시 is shortened to 서울.
func LocationDisplayName(sel models.RegionSelection) string {
	switch {
	case sel.District != "":
		return sel.District
	case sel.City != "":
		return sel.City
	case sel.Province == "서울특별시":
		return "서울"
	default:
		return sel.Province
	}
}

func normName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
