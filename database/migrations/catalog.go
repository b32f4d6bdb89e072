package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_taxonomy_tables", &CreateTaxonomyTables{})
	migration.Register("20260101000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000002_create_variants_skus_price_tables", &CreateVariantTree{})
}

// -------- 0001: brands, categories, subcategories --------

type CreateTaxonomyTables struct{}

func (m *CreateTaxonomyTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Brand{}, &models.Category{}, &models.Subcategory{})
}

func (m *CreateTaxonomyTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("subcategories", "categories", "brands")
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0003: variants, skus, price tables --------

type CreateVariantTree struct{}

func (m *CreateVariantTree) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Variant{}, &models.Sku{}, &models.PriceTableSku{})
}

func (m *CreateVariantTree) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("price_tables_skus", "skus", "variants")
}
