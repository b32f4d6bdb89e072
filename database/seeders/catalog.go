package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
)

func init() {
	Register("taxonomy", SeedTaxonomy)
	Register("sample_products", SeedSampleProducts)
}

var seedCategories = map[string][]string{
	"Footwear": {"Sneakers", "Boots"},
	"Apparel":  {"T-Shirts", "Jackets"},
}

// SeedTaxonomy inserts brands, categories and subcategories. Existing rows
// with the same name are left untouched, so it can run repeatedly.
func SeedTaxonomy(db *gorm.DB) error {
	for _, name := range []string{"Acme", "Northwind"} {
		b := models.Brand{Name: name}
		if err := db.Where(b).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}

	for _, name := range []string{"Footwear", "Apparel"} {
		cat := models.Category{Name: name}
		if err := db.Where(models.Category{Name: name}).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
		for _, sub := range seedCategories[name] {
			s := models.Subcategory{CategoryID: cat.ID, Name: sub}
			if err := db.Where(s).FirstOrCreate(&s).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedSampleProducts creates one demo product per brand unless products
// already exist.
func SeedSampleProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var brands []models.Brand
	if err := db.Order("id").Find(&brands).Error; err != nil {
		return err
	}
	var sneakers models.Subcategory
	if err := db.Where("name = ?", "Sneakers").First(&sneakers).Error; err != nil {
		return err
	}

	gender, kind := "unisex", "running"
	for i, b := range brands {
		p := models.Product{
			Name:           b.Name + " Runner",
			Reference:      "SEED-" + b.Name,
			Gender:         &gender,
			Type:           &kind,
			PromptDelivery: i%2 == 0,
			BrandID:        &b.ID,
			CategoryID:     &sneakers.CategoryID,
			SubcategoryID:  &sneakers.ID,
			Variants: []models.Variant{{
				Name:    "Black",
				HexCode: "#000000",
				Skus: []models.Sku{
					seedSku("40", 1),
					seedSku("42", 1),
				},
			}},
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedSku(size string, table uint) models.Sku {
	price := decimal.NewFromInt(199)
	return models.Sku{
		Size:             size,
		Price:            price,
		Stock:            10,
		MinQuantity:      1,
		MultipleQuantity: 1,
		PriceTables:      []models.PriceTableSku{{PriceTableID: table, Price: price}},
	}
}
