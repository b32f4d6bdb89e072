package services

import "github.com/shashiranjanraj/catalog/app/models"

// VariantFilter decides which variants of a product are shown to clients.
//
// A variant is consistent when every one of its SKUs points at the same
// single price table. A SKU without any price-table association counts as
// "unpriced", which is its own distinct value: mixing priced and unpriced
// SKUs makes a variant inconsistent.
type VariantFilter struct {
	// RetainUnpriced keeps variants where no SKU has an association.
	RetainUnpriced bool
}

// DefaultVariantFilter retains all-unpriced variants.
var DefaultVariantFilter = VariantFilter{RetainUnpriced: true}

// Apply returns the consistent variants in their original order. The input
// slice is not modified.
func (f VariantFilter) Apply(variants []models.Variant) []models.Variant {
	out := make([]models.Variant, 0, len(variants))
	for _, v := range variants {
		if f.keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (f VariantFilter) keep(v models.Variant) bool {
	tables := make(map[uint]struct{})
	unpriced := false

	for _, sku := range v.Skus {
		if len(sku.PriceTables) == 0 {
			unpriced = true
			continue
		}
		for _, pt := range sku.PriceTables {
			tables[pt.PriceTableID] = struct{}{}
		}
	}

	distinct := len(tables)
	if unpriced {
		distinct++
	}

	if distinct != 1 {
		return false
	}
	if unpriced {
		return f.RetainUnpriced
	}
	return true
}

// FilterValidVariants applies DefaultVariantFilter.
func FilterValidVariants(variants []models.Variant) []models.Variant {
	return DefaultVariantFilter.Apply(variants)
}
