package services

import (
	"time"

	"howmuch-apple/models"
)

func testDirectory() *RegionDirectory {
	return NewRegionDirectory([]models.RegionNode{
		{Name: "서울특별시", Cities: []models.CityNode{
			{Name: "관악구", Districts: []string{"신림동", "봉천동", "남현동"}},
			{Name: "강남구", Districts: []string{"역삼1동", "삼성1동"}},
		}},
		{Name: "부산광역시", Cities: []models.CityNode{
			{Name: "해운대구", Districts: []string{"우1동", "중1동"}},
		}},
	})
}

func testOptions() models.DeviceOptions {
	return models.DeviceOptions{
		models.CategoryIPhone: {
			ModelGroups: []models.OptionGroup{
				{Label: "iPhone 17", Options: []string{"iPhone 17", "iPhone Air", "iPhone 17 Pro", "iPhone 17 Pro Max"}},
				{Label: "iPhone 16", Options: []string{"iPhone 16", "iPhone 16 Plus", "iPhone 16 Pro", "iPhone 16 Pro Max"}},
				{Label: "iPhone 15", Options: []string{"iPhone 15", "iPhone 15 Plus", "iPhone 15 Pro", "iPhone 15 Pro Max"}},
			},
			Storages: []string{"128GB", "256GB"},
			Colors:   []string{"블랙", "화이트"},
		},
		models.CategoryMacBook: {
			Models: []string{"MacBook Air 13 (M2)", "MacBook Pro 14 (M4)"},
		},
		models.CategoryWatch: {
			Series: []string{"Apple Watch SE 2세대", "Apple Watch Series 10"},
		},
	}
}

func timeParseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
