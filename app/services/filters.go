package services

import "github.com/shashiranjanraj/catalog/app/models"

type BrandFacet struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type NamedFacet struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type CategoryFacet struct {
	Name          string       `json:"name"`
	Quantity      int          `json:"quantity"`
	Subcategories []NamedFacet `json:"subcategories"`
}

type PromptDeliveryFacet struct {
	True  int `json:"true"`
	False int `json:"false"`
}

// FilterSummary holds the facet counts shown next to a product listing.
type FilterSummary struct {
	Brands         []BrandFacet        `json:"brands"`
	Types          []NamedFacet        `json:"types"`
	Genders        []NamedFacet        `json:"genders"`
	Categories     []CategoryFacet     `json:"categories"`
	PromptDelivery PromptDeliveryFacet `json:"promptDelivery"`
}

// ComputeFilters counts products per brand, type, gender, category and
// subcategory in a single pass. Facets are ordered by first appearance.
// Brands are keyed by id, everything else by exact name. Products missing an
// attribute do not contribute to that facet.
func ComputeFilters(products []models.Product) FilterSummary {
	summary := FilterSummary{
		Brands:     []BrandFacet{},
		Types:      []NamedFacet{},
		Genders:    []NamedFacet{},
		Categories: []CategoryFacet{},
	}

	brandIdx := map[uint]int{}
	typeIdx := map[string]int{}
	genderIdx := map[string]int{}
	categoryIdx := map[string]int{}
	subIdx := map[string]map[string]int{}

	for _, p := range products {
		if p.Brand != nil {
			if i, ok := brandIdx[p.Brand.ID]; ok {
				summary.Brands[i].Quantity++
			} else {
				brandIdx[p.Brand.ID] = len(summary.Brands)
				summary.Brands = append(summary.Brands, BrandFacet{ID: p.Brand.ID, Name: p.Brand.Name, Quantity: 1})
			}
		}

		if p.Type != nil && *p.Type != "" {
			summary.Types = countNamed(summary.Types, typeIdx, *p.Type)
		}

		if p.Gender != nil && *p.Gender != "" {
			summary.Genders = countNamed(summary.Genders, genderIdx, *p.Gender)
		}

		if p.PromptDelivery {
			summary.PromptDelivery.True++
		} else {
			summary.PromptDelivery.False++
		}

		if p.Category == nil {
			continue
		}

		name := p.Category.Name
		i, ok := categoryIdx[name]
		if !ok {
			i = len(summary.Categories)
			categoryIdx[name] = i
			subIdx[name] = map[string]int{}
			summary.Categories = append(summary.Categories, CategoryFacet{Name: name, Subcategories: []NamedFacet{}})
		}
		cat := &summary.Categories[i]
		cat.Quantity++

		if p.Subcategory != nil {
			cat.Subcategories = countNamed(cat.Subcategories, subIdx[name], p.Subcategory.Name)
		}
	}

	return summary
}

func countNamed(facets []NamedFacet, idx map[string]int, name string) []NamedFacet {
	if i, ok := idx[name]; ok {
		facets[i].Quantity++
		return facets
	}
	idx[name] = len(facets)
	return append(facets, NamedFacet{Name: name, Quantity: 1})
}
