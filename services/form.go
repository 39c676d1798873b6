package services

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"howmuch-apple/models"
)

var (
	ErrCategoryRequired = errors.New("category is required")
	ErrRegionIncomplete = errors.New("province, city and district are all required")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrOptionNotAllowed = errors.New("option does not apply to the selected category")
	ErrRegionOrder      = errors.New("select the parent region first")
)

// QueryForm collects the search selections. It is owned by a single request
// and produces one immutable QuerySpec on Submit.
type QueryForm struct {
	directory     *RegionDirectory
	requireRegion bool

	category models.Category
	config   map[string]string
	region   models.RegionSelection
}

// NewQueryForm creates an empty form. directory may be nil, in which case
// region names are not validated.
func NewQueryForm(directory *RegionDirectory, requireRegion bool) *QueryForm {
	return &QueryForm{
		directory:     directory,
		requireRegion: requireRegion,
		config:        make(map[string]string),
	}
}

// SetCategory selects the product category and clears every configuration value.
func (f *QueryForm) SetCategory(raw string) error {
	if strings.TrimSpace(raw) == "" {
		f.category = ""
		clear(f.config)
		return nil
	}
	cat, ok := models.ParseCategory(raw)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	if cat != f.category {
		clear(f.config)
	}
	f.category = cat
	return nil
}

// Category returns the selected category.
func (f *QueryForm) Category() models.Category {
	return f.category
}

// SelectModel stores a combo-list pick under the category's primary key
// (macbookModel for MacBook, series for Watch, model otherwise).
func (f *QueryForm) SelectModel(value string) error {
	if f.category == "" {
		return ErrCategoryRequired
	}
	return f.SetOption(f.category.PrimaryKey(), value)
}

func (f *QueryForm) SetStorage(v string) error    { return f.SetOption(models.KeyStorage, v) }
func (f *QueryForm) SetColor(v string) error      { return f.SetOption(models.KeyColor, v) }
func (f *QueryForm) SetConnection(v string) error { return f.SetOption(models.KeyConnection, v) }
func (f *QueryForm) SetChipset(v string) error    { return f.SetOption(models.KeyChipset, v) }
func (f *QueryForm) SetRAM(v string) error        { return f.SetOption(models.KeyRAM, v) }
func (f *QueryForm) SetSSD(v string) error        { return f.SetOption(models.KeySSD, v) }
func (f *QueryForm) SetSize(v string) error       { return f.SetOption(models.KeySize, v) }
func (f *QueryForm) SetMaterial(v string) error   { return f.SetOption(models.KeyMaterial, v) }

// SetOption sets one configuration value. Empty values remove the key.
func (f *QueryForm) SetOption(key, value string) error {
	if f.category == "" {
		return ErrCategoryRequired
	}
	if !f.category.AcceptsKey(key) {
		return fmt.Errorf("%w: %s for %s", ErrOptionNotAllowed, key, f.category)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(f.config, key)
		return nil
	}
	f.config[key] = value
	return nil
}

// SetRegion changes one level of the location and lets the cascade reducer
// clear its descendants.
func (f *QueryForm) SetRegion(level models.RegionLevel, value string) error {
	if f.directory != nil && !f.directory.Ready() {
		return f.directory.Err()
	}

	switch level {
	case models.LevelProvince:
		if f.directory != nil && value != "" {
			value = f.directory.ResolveProvince(value)
		}
	case models.LevelCity:
		if f.region.Province == "" && value != "" {
			return fmt.Errorf("%w: city needs a province", ErrRegionOrder)
		}
	case models.LevelDistrict:
		if f.region.City == "" && value != "" {
			return fmt.Errorf("%w: district needs a city", ErrRegionOrder)
		}
	default:
		return fmt.Errorf("unknown region level %q", level)
	}

	next := ApplyRegionChange(f.region, level, value)
	if f.directory != nil {
		if err := f.directory.Validate(next); err != nil {
			return err
		}
	}
	f.region = next
	return nil
}

// Region returns the current location selection.
func (f *QueryForm) Region() models.RegionSelection {
	return f.region
}

// Submit validates the form and returns an immutable QuerySpec.
func (f *QueryForm) Submit() (models.QuerySpec, error) {
	if f.category == "" {
		return models.QuerySpec{}, ErrCategoryRequired
	}
	if f.requireRegion && !f.region.Complete() {
		return models.QuerySpec{}, ErrRegionIncomplete
	}
	return models.QuerySpec{
		Category: f.category,
		Config:   maps.Clone(f.config),
		Region:   f.region,
	}, nil
}

// PromoteModelKey returns a copy of config with the generic "model" key moved
// to the category's primary key (macbookModel or series). An explicit primary
// value wins over the generic one.
func PromoteModelKey(cat models.Category, config map[string]string) map[string]string {
	out := maps.Clone(config)
	if out == nil {
		out = make(map[string]string)
	}
	primary := cat.PrimaryKey()
	if primary == models.KeyModel {
		return out
	}
	if m := out[models.KeyModel]; m != "" && out[primary] == "" {
		out[primary] = m
	}
	delete(out, models.KeyModel)
	return out
}

// BindQuerySpec replays a decoded QuerySpec through a fresh form so that JSON
// clients get the same validation as the HTML form. A generic "model" key is
// promoted to the category's primary key; any other key the category does not
// take is ErrOptionNotAllowed.
func BindQuerySpec(spec models.QuerySpec, directory *RegionDirectory, requireRegion bool) (models.QuerySpec, error) {
	f := NewQueryForm(directory, requireRegion)
	if err := f.SetCategory(string(spec.Category)); err != nil {
		return models.QuerySpec{}, err
	}
	if f.category != "" {
		config := PromoteModelKey(f.category, spec.Config)
		for _, key := range slices.Sorted(maps.Keys(config)) {
			if strings.TrimSpace(config[key]) == "" {
				continue
			}
			if err := f.SetOption(key, config[key]); err != nil {
				return models.QuerySpec{}, err
			}
		}
	}
	if !spec.Region.Empty() {
		steps := []struct {
			level models.RegionLevel
			value string
		}{
			{models.LevelProvince, spec.Region.Province},
			{models.LevelCity, spec.Region.City},
			{models.LevelDistrict, spec.Region.District},
		}
		for _, s := range steps {
			if s.value == "" {
				continue
			}
			if err := f.SetRegion(s.level, s.value); err != nil {
				return models.QuerySpec{}, err
			}
		}
	}
	return f.Submit()
}
