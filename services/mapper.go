package services

import (
	_ "embed"
	"encoding/json"
	"sync"

	"howmuch-apple/models"
)

//go:embed data/model_names.json
var modelNamesJSON []byte

// nameDictionary translates display names into the backend's canonical names.
type nameDictionary struct {
	Products map[models.Category]string `json:"products"`
	Models   map[string]string          `json:"models"`
}

var loadDictionary = sync.OnceValue(func() nameDictionary {
	var d nameDictionary
	if err := json.Unmarshal(modelNamesJSON, &d); err != nil {
		panic("services: embedded model_names.json is invalid: " + err.Error())
	}
	return d
})

// CanonicalProduct is the backend product name for a category.
func CanonicalProduct(cat models.Category) string {
	if p, ok := loadDictionary().Products[cat]; ok {
		return p
	}
	return string(cat)
}

// CanonicalModel translates a display model name. Unknown names pass through.
func CanonicalModel(display string) string {
	if m, ok := loadDictionary().Models[display]; ok {
		return m
	}
	return display
}

// BuildRequest flattens a QuerySpec into the backend request body. Empty
// fields are dropped rather than sent as null.
func BuildRequest(q models.QuerySpec) models.APIRequest {
	spec := make(map[string]string)
	put := func(key string, values ...string) {
		for _, v := range values {
			if v != "" {
				spec[key] = v
				return
			}
		}
	}

	if model := q.ModelName(); model != "" {
		spec["model"] = CanonicalModel(model)
	}
	put("storage", q.Get(models.KeyStorage), q.Get(models.KeySSD))
	put("color", q.Get(models.KeyColor))
	put("chip", q.Get(models.KeyChipset))
	put("ram", q.Get(models.KeyRAM))
	put("size", q.Get(models.KeySize))
	put("material", q.Get(models.KeyMaterial))
	put("connectivity", q.Get(models.KeyConnection))
	put("cellular", q.Get(models.KeyConnection))

	region := make(map[string]string)
	if q.Region.Province != "" {
		region[models.RegionKeyProvince] = q.Region.Province
	}
	if q.Region.City != "" {
		region[models.RegionKeyCity] = q.Region.City
	}
	if q.Region.District != "" {
		region[models.RegionKeyDistrict] = q.Region.District
	}

	return models.APIRequest{
		Product: CanonicalProduct(q.Category),
		Spec:    spec,
		Region:  region,
	}
}
