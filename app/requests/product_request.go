// Package requests holds the validated payloads accepted by the product API.
package requests

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalog/app/models"
)

type PriceTableInput struct {
	PriceTableID uint             `json:"price_table_id" validate:"required"`
	Price        *decimal.Decimal `json:"price"          validate:"required,gte=0"`
}

type SkuInput struct {
	Size             string            `json:"size"              validate:"required,max=50"`
	Stock            int               `json:"stock"             validate:"gte=0"`
	Price            *decimal.Decimal  `json:"price"             validate:"required,gte=0"`
	Code             string            `json:"code"              validate:"max=100"`
	MinQuantity      int               `json:"min_quantity"      validate:"gte=0"`
	MultipleQuantity int               `json:"multiple_quantity" validate:"gte=0"`
	PriceTables      []PriceTableInput `json:"price_tables_skus" validate:"omitempty,dive"`
}

type VariantInput struct {
	Name    string     `json:"name"     validate:"required,max=255"`
	HexCode string     `json:"hex_code" validate:"max=16"`
	Skus    []SkuInput `json:"skus"     validate:"required,dive"`
}

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	Name           string         `json:"name"            validate:"required,max=255"`
	Reference      string         `json:"reference"       validate:"required,max=100"`
	Gender         *string        `json:"gender"          validate:"omitempty,max=50"`
	Type           *string        `json:"type"            validate:"omitempty,max=100"`
	Description    *string        `json:"description"`
	PromptDelivery bool           `json:"prompt_delivery"`
	BrandID        *uint          `json:"brand_id"        validate:"omitempty,gt=0"`
	CategoryID     *uint          `json:"category_id"     validate:"omitempty,gt=0"`
	SubcategoryID  *uint          `json:"subcategory_id"  validate:"omitempty,gt=0"`
	CompanyKey     *string        `json:"company_key"     validate:"omitempty,max=100"`
	Variants       []VariantInput `json:"variants"        validate:"required,dive"`
}

// Product builds the product row with its full variant tree. IDs are left
// zero for the store to assign.
func (r CreateProductRequest) Product() models.Product {
	return models.Product{
		Name:           r.Name,
		Reference:      r.Reference,
		Gender:         r.Gender,
		Type:           r.Type,
		Description:    r.Description,
		PromptDelivery: r.PromptDelivery,
		BrandID:        r.BrandID,
		CategoryID:     r.CategoryID,
		SubcategoryID:  r.SubcategoryID,
		CompanyKey:     r.CompanyKey,
		Variants:       BuildVariants(r.Variants),
	}
}

// UpdateProductRequest is the body of PUT /products/{id}. Scalar fields left
// out (or sent as null) keep their stored value. Variants is required and
// replaces the whole variant tree.
type UpdateProductRequest struct {
	Name           *string        `json:"name"            validate:"omitempty,min=1,max=255"`
	Reference      *string        `json:"reference"       validate:"omitempty,min=1,max=100"`
	Gender         *string        `json:"gender"          validate:"omitempty,max=50"`
	Type           *string        `json:"type"            validate:"omitempty,max=100"`
	Description    *string        `json:"description"`
	PromptDelivery *bool          `json:"prompt_delivery"`
	BrandID        *uint          `json:"brand_id"        validate:"omitempty,gt=0"`
	CategoryID     *uint          `json:"category_id"     validate:"omitempty,gt=0"`
	SubcategoryID  *uint          `json:"subcategory_id"  validate:"omitempty,gt=0"`
	CompanyKey     *string        `json:"company_key"     validate:"omitempty,max=100"`
	Variants       []VariantInput `json:"variants"        validate:"required,dive"`
}

// Fields returns the column → value patch for the provided scalar fields.
func (r UpdateProductRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}

	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Reference != nil {
		fields["reference"] = *r.Reference
	}
	if r.Gender != nil {
		fields["gender"] = *r.Gender
	}
	if r.Type != nil {
		fields["type"] = *r.Type
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.PromptDelivery != nil {
		fields["prompt_delivery"] = *r.PromptDelivery
	}
	if r.BrandID != nil {
		fields["brand_id"] = *r.BrandID
	}
	if r.CategoryID != nil {
		fields["category_id"] = *r.CategoryID
	}
	if r.SubcategoryID != nil {
		fields["subcategory_id"] = *r.SubcategoryID
	}
	if r.CompanyKey != nil {
		fields["company_key"] = *r.CompanyKey
	}

	return fields
}

// BuildVariants converts validated input into unsaved variant models.
func BuildVariants(in []VariantInput) []models.Variant {
	variants := make([]models.Variant, 0, len(in))
	for _, v := range in {
		skus := make([]models.Sku, 0, len(v.Skus))
		for _, s := range v.Skus {
			tables := make([]models.PriceTableSku, 0, len(s.PriceTables))
			for _, pt := range s.PriceTables {
				tables = append(tables, models.PriceTableSku{
					PriceTableID: pt.PriceTableID,
					Price:        deref(pt.Price),
				})
			}
			skus = append(skus, models.Sku{
				Size:             s.Size,
				Stock:            s.Stock,
				Price:            deref(s.Price),
				Code:             s.Code,
				MinQuantity:      s.MinQuantity,
				MultipleQuantity: s.MultipleQuantity,
				PriceTables:      tables,
			})
		}
		variants = append(variants, models.Variant{
			Name:    v.Name,
			HexCode: v.HexCode,
			Skus:    skus,
		})
	}
	return variants
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
