package services

import "howmuch-apple/models"

// ApplyRegionChange is the cascading-reset reducer. It derives the next
// selection purely from the current one and the changed level: a new province
// clears city and district, a new city clears district. Re-selecting the same
// value changes nothing. A city without a province, or a district without a
// city, is ignored.
func ApplyRegionChange(sel models.RegionSelection, level models.RegionLevel, value string) models.RegionSelection {
	value = normName(value)

	switch level {
	case models.LevelProvince:
		if value == sel.Province {
			return sel
		}
		return models.RegionSelection{Province: value}

	case models.LevelCity:
		if sel.Province == "" || value == sel.City {
			return sel
		}
		return models.RegionSelection{Province: sel.Province, City: value}

	case models.LevelDistrict:
		if sel.City == "" {
			return sel
		}
		sel.District = value
		return sel
	}
	return sel
}
