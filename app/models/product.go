package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. Soft-deleted rows keep their children and are
// hidden from every default query through DeletedAt.
type Product struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:255;not null;index" json:"name"`
	Reference      string         `gorm:"size:100;not null;index" json:"reference"`
	Gender         *string        `gorm:"size:50" json:"gender"`
	Type           *string        `gorm:"size:100" json:"type"`
	Description    *string        `gorm:"type:text" json:"description"`
	PromptDelivery bool           `gorm:"not null;default:false" json:"prompt_delivery"`
	BrandID        *uint          `gorm:"index" json:"brand_id"`
	CategoryID     *uint          `gorm:"index" json:"category_id"`
	SubcategoryID  *uint          `gorm:"index" json:"subcategory_id"`
	CompanyKey     *string        `gorm:"size:100;index" json:"company_key"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Brand       *Brand       `gorm:"foreignKey:BrandID" json:"brands,omitempty"`
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"categories,omitempty"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategories,omitempty"`
	Variants    []Variant    `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string { return "products" }

// Variant groups the SKUs of one colour or style of a product.
type Variant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	HexCode   string `gorm:"size:16" json:"hex_code"`

	Skus []Sku `gorm:"foreignKey:VariantID" json:"skus"`
}

func (Variant) TableName() string { return "variants" }
