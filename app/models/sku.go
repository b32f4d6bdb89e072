package models

import "github.com/shopspring/decimal"

// Sku is a sellable unit of a variant (one size).
type Sku struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	VariantID        uint            `gorm:"not null;index" json:"variant_id"`
	Size             string          `gorm:"size:50;not null" json:"size"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Stock            int             `gorm:"not null;default:0" json:"stock"`
	Code             string          `gorm:"size:100;index" json:"code"`
	MinQuantity      int             `gorm:"not null" json:"min_quantity"`
	MultipleQuantity int             `gorm:"not null" json:"multiple_quantity"`

	PriceTables []PriceTableSku `gorm:"foreignKey:SkuID" json:"price_tables_skus"`
}

func (Sku) TableName() string { return "skus" }

// PriceTableSku assigns a price for a SKU under an external price table.
type PriceTableSku struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SkuID        uint            `gorm:"not null;index" json:"sku_id"`
	PriceTableID uint            `gorm:"not null;index" json:"price_table_id"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
}

func (PriceTableSku) TableName() string { return "price_tables_skus" }
