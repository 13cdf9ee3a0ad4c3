// Package reference holds the fixed lists a request is validated against:
// sectors, legal entities and comparison levels.
package reference

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v2"
)

//go:embed reference.yaml
var referenceYAML []byte

// Item is one selectable option with English and Arabic names.
type Item struct {
	ID     string `yaml:"id" json:"id"`
	NameEN string `yaml:"name_en" json:"name_en"`
	NameAR string `yaml:"name_ar" json:"name_ar"`
}

// Name returns the display name for lang ("ar" or anything else for English).
func (i Item) Name(lang string) string {
	if lang == "ar" && i.NameAR != "" {
		return i.NameAR
	}
	return i.NameEN
}

// Data is the full reference table.
type Data struct {
	Sectors          []Item `yaml:"sectors" json:"sectors"`
	LegalEntities    []Item `yaml:"legal_entities" json:"legal_entities"`
	ComparisonLevels []Item `yaml:"comparison_levels" json:"comparison_levels"`

	index map[string]map[string]Item
}

// List names.
const (
	ListSectors          = "sectors"
	ListLegalEntities    = "legal_entities"
	ListComparisonLevels = "comparison_levels"
)

var (
	defaultData *Data
	defaultOnce sync.Once
)

// Default returns the embedded reference data. It panics if the embedded
// file is invalid.
func Default() *Data {
	defaultOnce.Do(func() {
		d, err := Parse(referenceYAML)
		if err != nil {
			panic(fmt.Sprintf("reference: embedded data: %v", err))
		}
		defaultData = d
	})
	return defaultData
}

// Parse decodes reference YAML and rejects empty or duplicate ids.
func Parse(data []byte) (*Data, error) {
	var d Data
	if err := yaml.UnmarshalStrict(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse reference data: %w", err)
	}
	d.index = make(map[string]map[string]Item, 3)
	for list, items := range map[string][]Item{
		ListSectors:          d.Sectors,
		ListLegalEntities:    d.LegalEntities,
		ListComparisonLevels: d.ComparisonLevels,
	} {
		idx := make(map[string]Item, len(items))
		for _, it := range items {
			if it.ID == "" {
				return nil, fmt.Errorf("%s: item without id", list)
			}
			if _, dup := idx[it.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate id %q", list, it.ID)
			}
			idx[it.ID] = it
		}
		d.index[list] = idx
	}
	return &d, nil
}

// Find looks up an id in one of the lists.
func (d *Data) Find(list, id string) (Item, bool) {
	it, ok := d.index[list][id]
	return it, ok
}

func (d *Data) HasSector(id string) bool {
	_, ok := d.Find(ListSectors, id)
	return ok
}

func (d *Data) HasLegalEntity(id string) bool {
	_, ok := d.Find(ListLegalEntities, id)
	return ok
}

func (d *Data) HasComparisonLevel(id string) bool {
	_, ok := d.Find(ListComparisonLevels, id)
	return ok
}
