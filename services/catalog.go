package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"howmuch-apple/models"
	"howmuch-apple/utils"
)

// ErrOptionsUnavailable means the device-option file failed to load.
var ErrOptionsUnavailable = errors.New("device options unavailable")

const (
	// searchInitialLimit caps the list shown before anything is typed.
	searchInitialLimit = 10
	// searchFilteredLimit caps the list once a query narrows it.
	searchFilteredLimit = 20
)

// ModelCatalog is the flat, per-category list of model names behind the
// searchable combo box. It is precomputed once from the device options.
type ModelCatalog struct {
	items map[models.Category][]models.SearchItem
}

// NewModelCatalog flattens the option groups of every category into search items.
func NewModelCatalog(opts models.DeviceOptions) *ModelCatalog {
	c := &ModelCatalog{items: make(map[models.Category][]models.SearchItem)}

	for _, cat := range models.Categories {
		o, ok := opts[cat]
		if !ok {
			continue
		}

		var names []string
		switch cat {
		case models.CategoryIPhone, models.CategoryIPad:
			for _, g := range o.ModelGroups {
				names = append(names, g.Options...)
			}
		case models.CategoryWatch:
			names = o.Series
		default:
			names = o.Models
		}

		items := make([]models.SearchItem, 0, len(names))
		for _, n := range names {
			items = append(items, models.SearchItem{Category: cat, Label: n, Value: n})
		}
		c.items[cat] = items
	}
	return c
}

// Items returns every search item of a category.
func (c *ModelCatalog) Items(cat models.Category) []models.SearchItem {
	if c == nil {
		return nil
	}
	return c.items[cat]
}

// Search filters a category's items by case-insensitive substring match.
// A blank query returns the first 10 items; otherwise up to 20 matches.
func (c *ModelCatalog) Search(cat models.Category, query string) []models.SearchItem {
	all := c.Items(cat)
	if len(all) == 0 {
		return []models.SearchItem{}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]models.SearchItem(nil), all[:min(len(all), searchInitialLimit)]...)
	}

	out := make([]models.SearchItem, 0, searchFilteredLimit)
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.Label), q) {
			out = append(out, item)
			if len(out) == searchFilteredLimit {
				break
			}
		}
	}
	return out
}

// DeviceCatalog holds the loaded device-option document and its search index.
type DeviceCatalog struct {
	options models.DeviceOptions
	models  *ModelCatalog
	err     error
}

// NewDeviceCatalog wraps already-decoded options.
func NewDeviceCatalog(opts models.DeviceOptions) *DeviceCatalog {
	return &DeviceCatalog{options: opts, models: NewModelCatalog(opts)}
}

// LoadDeviceCatalog performs one read of the device-option file. On failure the
// catalog carries the error and every lookup is empty.
func LoadDeviceCatalog(ctx context.Context, client *http.Client, source string, logger *utils.Logger) *DeviceCatalog {
	var opts models.DeviceOptions
	if err := readStaticJSON(ctx, client, source, &opts); err != nil {
		logger.Error("[devices] Load failed: %v", err)
		return &DeviceCatalog{err: err}
	}

	cat := NewDeviceCatalog(opts)
	for _, c := range models.Categories {
		logger.Debug("[devices] %s: %d searchable models", c, len(cat.models.Items(c)))
	}
	logger.Info("[devices] Loaded options for %d categories from %s", len(opts), source)
	return cat
}

// Ready reports whether the options loaded.
func (d *DeviceCatalog) Ready() bool {
	return d != nil && d.err == nil
}

// Err returns the load error wrapped in ErrOptionsUnavailable.
func (d *DeviceCatalog) Err() error {
	if d == nil {
		return ErrOptionsUnavailable
	}
	if d.err != nil {
		return fmt.Errorf("%w: %v", ErrOptionsUnavailable, d.err)
	}
	return nil
}

// Options returns the raw option document.
func (d *DeviceCatalog) Options() models.DeviceOptions {
	if !d.Ready() {
		return nil
	}
	return d.options
}

// For returns the options of one category.
func (d *DeviceCatalog) For(cat models.Category) models.CategoryOptions {
	if !d.Ready() {
		return models.CategoryOptions{}
	}
	return d.options[cat]
}

// Models returns the search index. It is never nil.
func (d *DeviceCatalog) Models() *ModelCatalog {
	if !d.Ready() || d.models == nil {
		return &ModelCatalog{}
	}
	return d.models
}
