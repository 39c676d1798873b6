package models

// RegionNode is one province (시/도) of the location directory.
type RegionNode struct {
	Name   string     `json:"name"`
	Cities []CityNode `json:"cities"`
}

// CityNode is one city/county/gu (시/군/구) and its districts (읍/면/동).
type CityNode struct {
	Name      string   `json:"name"`
	Districts []string `json:"districts"`
}

// RegionLevel names one level of the province → city → district cascade.
type RegionLevel string

const (
	LevelProvince RegionLevel = "province"
	LevelCity     RegionLevel = "city"
	LevelDistrict RegionLevel = "district"
)

// RegionSelection is the user's cascading location choice. Every field is
// optional, but a city implies a province and a district implies a city.
type RegionSelection struct {
	Province string `json:"province"`
	City     string `json:"city"`
	District string `json:"district"`
}

// Complete reports whether all three levels are chosen.
func (r RegionSelection) Complete() bool {
	return r.Province != "" && r.City != "" && r.District != ""
}

// Empty reports whether nothing is chosen.
func (r RegionSelection) Empty() bool {
	return r.Province == "" && r.City == "" && r.District == ""
}
