package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"howmuch-apple/models"
	"howmuch-apple/utils"
)

// numberRegexp captures the first decimal number.
var numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)

var postedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006.01.02",
}

// Cleaner transforms RawListings into clean, validated Listings.
type Cleaner struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger, now: time.Now}
}

// Clean processes raw listings and returns cleaned records. Rows without a
// URL or a usable price are dropped; repeated URLs keep the first row.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	seen := utils.NewStringSet()
	result := make([]*models.Listing, 0, len(raw))
	now := c.now()

	for _, r := range raw {
		url := strings.TrimSpace(r.SourceURL)
		if url == "" {
			c.logger.Warn("[cleaner] Dropping listing with empty URL: %s", r.Model)
			continue
		}
		if !seen.Add(url) {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}

		price := parseWon(r.RawPrice)
		if price <= 0 {
			c.logger.Warn("[cleaner] Dropping listing with unusable price %q: %s", r.RawPrice, url)
			continue
		}

		result = append(result, &models.Listing{
			Product:   normaliseProduct(r.Product),
			Model:     CanonicalModel(normaliseText(r.Model)),
			Price:     price,
			Province:  normaliseText(r.Province),
			City:      normaliseText(r.City),
			District:  normaliseText(r.District),
			Source:    normaliseText(r.Source),
			SourceURL: url,
			PostedAt:  parsePostedAt(r.PostedAt, now),
			CreatedAt: now,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parseWon reads the first Korean price expression into whole won:
//
//	"1,150,000원"       → 1150000
//	"115만원"            → 1150000
//	"115만 5천원"        → 1155000
//	"1.2만"             → 12000
//	"9천원"              → 9000
//	"100만원 → 90만원"   → 1000000
func parseWon(raw string) int64 {
	s := normaliseText(raw)
	if i := strings.IndexAny(s, priceSeparators); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if head, tail, ok := strings.Cut(s, "만"); ok {
		man, ok := leadingNumber(head)
		if !ok {
			return 0
		}
		return int64(man*10000+0.5) + belowTenThousand(tail)
	}
	return belowTenThousand(s)
}

// priceSeparators end the first price in texts like "100만 → 90만" or "9천/1만".
const priceSeparators = "→>/~"

// belowTenThousand reads "N천" with an optional plain remainder ("5천500"),
// or a plain number.
func belowTenThousand(s string) int64 {
	if head, tail, ok := strings.Cut(s, "천"); ok {
		cheon, ok := leadingNumber(head)
		if !ok {
			return 0
		}
		rest, _ := leadingNumber(tail)
		return int64(cheon*1000+0.5) + int64(rest)
	}
	v, _ := leadingNumber(s)
	return int64(v)
}

func leadingNumber(s string) (float64, bool) {
	match := numberRegexp.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parsePostedAt(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range postedAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}
	return fallback
}

// normaliseProduct accepts category keys ("iphone", "phone") or canonical
// product names ("iPhone") and returns the canonical product name.
func normaliseProduct(s string) string {
	s = normaliseText(s)
	if cat, ok := models.ParseCategory(s); ok {
		return CanonicalProduct(cat)
	}
	return s
}

// normaliseText converts to NFC, trims, and collapses internal whitespace.
func normaliseText(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
