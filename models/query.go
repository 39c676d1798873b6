package models

import "strings"

// Category is the product family being priced.
type Category string

const (
	CategoryIPhone  Category = "iphone"
	CategoryIPad    Category = "ipad"
	CategoryMacBook Category = "macbook"
	CategoryWatch   Category = "watch"
	CategoryAirPods Category = "airpods"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryIPhone, CategoryIPad, CategoryMacBook, CategoryWatch, CategoryAirPods}

// categoryAliases maps the generic family names onto the canonical keys.
var categoryAliases = map[string]Category{
	"phone":   CategoryIPhone,
	"tablet":  CategoryIPad,
	"laptop":  CategoryMacBook,
	"earbuds": CategoryAirPods,
}

// ParseCategory accepts canonical keys and generic aliases, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	c, ok := categoryAliases[s]
	return c, ok
}

// Label is the human-readable product name.
func (c Category) Label() string {
	switch c {
	case CategoryIPhone:
		return "iPhone"
	case CategoryIPad:
		return "iPad"
	case CategoryMacBook:
		return "MacBook"
	case CategoryWatch:
		return "Apple Watch"
	case CategoryAirPods:
		return "AirPods"
	}
	return string(c)
}

// Configuration keys carried in QuerySpec.Config.
const (
	KeyModel        = "model"
	KeyMacBookModel = "macbookModel"
	KeySeries       = "series"
	KeyStorage      = "storage"
	KeyColor        = "color"
	KeyConnection   = "connection"
	KeyChipset      = "chipset"
	KeyRAM          = "ram"
	KeySSD          = "ssd"
	KeySize         = "size"
	KeyMaterial     = "material"
)

// ConfigKeys lists the configuration keys each category accepts.
var ConfigKeys = map[Category][]string{
	CategoryIPhone:  {KeyModel, KeyStorage, KeyColor},
	CategoryIPad:    {KeyModel, KeyConnection},
	CategoryMacBook: {KeyMacBookModel, KeyChipset, KeyRAM, KeySSD},
	CategoryWatch:   {KeySeries, KeySize, KeyMaterial},
	CategoryAirPods: {KeyModel},
}

// AcceptsKey reports whether key is a valid configuration key for c.
func (c Category) AcceptsKey(key string) bool {
	for _, k := range ConfigKeys[c] {
		if k == key {
			return true
		}
	}
	return false
}

// PrimaryKey is the configuration key that holds the selected model name.
func (c Category) PrimaryKey() string {
	switch c {
	case CategoryMacBook:
		return KeyMacBookModel
	case CategoryWatch:
		return KeySeries
	default:
		return KeyModel
	}
}

// QuerySpec is the complete set of selections submitted from the search form.
// It is built once by the form and read once by the results stage.
type QuerySpec struct {
	Category Category          `json:"category"`
	Config   map[string]string `json:"config"`
	Region   RegionSelection   `json:"region"`
}

// Get returns a configuration value or "".
func (q QuerySpec) Get(key string) string {
	return q.Config[key]
}

// ModelName is the primary model selection, whichever key holds it.
func (q QuerySpec) ModelName() string {
	for _, k := range []string{KeyModel, KeyMacBookModel, KeySeries} {
		if v := q.Config[k]; v != "" {
			return v
		}
	}
	return ""
}
