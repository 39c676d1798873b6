package models

// OptionGroup is a labelled group of selectable values (an <optgroup>).
type OptionGroup struct {
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// CategoryOptions enumerates the selectable configuration values of one category.
// Each category only fills the fields that apply to it.
type CategoryOptions struct {
	ModelGroups   []OptionGroup `json:"modelGroups,omitempty"`
	Models        []string      `json:"models,omitempty"`
	Series        []string      `json:"series,omitempty"`
	Storages      []string      `json:"storages,omitempty"`
	Colors        []string      `json:"colors,omitempty"`
	Connections   []string      `json:"connections,omitempty"`
	ChipsetGroups []OptionGroup `json:"chipsetGroups,omitempty"`
	RAMs          []string      `json:"rams,omitempty"`
	SSDs          []string      `json:"ssds,omitempty"`
	Sizes         []string      `json:"sizes,omitempty"`
	Materials     []string      `json:"materials,omitempty"`
}

// DeviceOptions is the static device-option document keyed by category.
type DeviceOptions map[Category]CategoryOptions

// SearchItem is one entry of the searchable model combo list.
type SearchItem struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
}
