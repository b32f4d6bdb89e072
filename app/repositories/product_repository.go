package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// ErrNotFound is returned when no active product matches the lookup.
var ErrNotFound = errors.New("record not found")

// ProductRepository handles database operations for products and their
// variant tree. Soft-deleted products are invisible to every method except
// SoftDelete's final re-read.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *ProductRepository) Transaction(ctx context.Context, fn func(tx *ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductRepository{db: tx})
	})
}

// FindActive returns every non-deleted product with variants, SKUs,
// price-table associations, brand, category (with subcategories) and
// subcategory loaded.
func (r *ProductRepository) FindActive(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	products := make([]models.Product, 0)
	if err := withTree(r.db.WithContext(ctx)).Order("products.id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find active products: %w", err)
	}
	return products, nil
}

// FindActiveForFilters loads only the relations the facet counts need.
func (r *ProductRepository) FindActiveForFilters(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category.Subcategories", byID("subcategories")).
		Preload("Subcategory").
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("find products for filters: %w", err)
	}
	return products, nil
}

// FindByID returns the active product with its full tree, or ErrNotFound.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var product models.Product
	err := withTree(r.db.WithContext(ctx)).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &product, nil
}

// CountActive counts non-deleted products.
func (r *ProductRepository) CountActive(ctx context.Context) (int64, error) {
	defer metrics.ObserveDBQuery("count", time.Now())

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// CreateProduct inserts the product row only; nested variants are ignored.
func (r *ProductRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// CreateVariant inserts the variant row only.
func (r *ProductRepository) CreateVariant(ctx context.Context, v *models.Variant) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error; err != nil {
		return fmt.Errorf("insert variant %q: %w", v.Name, err)
	}
	return nil
}

// CreateSku inserts the SKU row only.
func (r *ProductRepository) CreateSku(ctx context.Context, s *models.Sku) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error; err != nil {
		return fmt.Errorf("insert sku %q: %w", s.Size, err)
	}
	return nil
}

func (r *ProductRepository) CreatePriceTableSku(ctx context.Context, pt *models.PriceTableSku) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.WithContext(ctx).Create(pt).Error; err != nil {
		return fmt.Errorf("insert price table %d for sku %d: %w", pt.PriceTableID, pt.SkuID, err)
	}
	return nil
}

// Patch applies fields to an active product and returns the updated row
// without relations. ErrNotFound when the product is missing or deleted.
func (r *ProductRepository) Patch(ctx context.Context, id uint, fields map[string]interface{}) (*models.Product, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	db := r.db.WithContext(ctx)

	var product models.Product
	err := db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}

	if len(fields) > 0 {
		if err := db.Model(&product).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("patch product %d: %w", id, err)
		}
		if err := db.First(&product, id).Error; err != nil {
			return nil, fmt.Errorf("reload product %d: %w", id, err)
		}
	}

	return &product, nil
}

// DeleteVariants removes every variant of the product together with its
// SKUs and their price-table associations.
func (r *ProductRepository) DeleteVariants(ctx context.Context, productID uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	db := r.db.WithContext(ctx)

	var variantIDs []uint
	if err := db.Model(&models.Variant{}).Where("product_id = ?", productID).Pluck("id", &variantIDs).Error; err != nil {
		return fmt.Errorf("list variants of product %d: %w", productID, err)
	}
	if len(variantIDs) == 0 {
		return nil
	}

	var skuIDs []uint
	if err := db.Model(&models.Sku{}).Where("variant_id IN ?", variantIDs).Pluck("id", &skuIDs).Error; err != nil {
		return fmt.Errorf("list skus of product %d: %w", productID, err)
	}

	if len(skuIDs) > 0 {
		if err := db.Where("sku_id IN ?", skuIDs).Delete(&models.PriceTableSku{}).Error; err != nil {
			return fmt.Errorf("delete price tables of product %d: %w", productID, err)
		}
		if err := db.Where("id IN ?", skuIDs).Delete(&models.Sku{}).Error; err != nil {
			return fmt.Errorf("delete skus of product %d: %w", productID, err)
		}
	}

	if err := db.Where("id IN ?", variantIDs).Delete(&models.Variant{}).Error; err != nil {
		return fmt.Errorf("delete variants of product %d: %w", productID, err)
	}
	return nil
}

// SoftDelete stamps deleted_at on an active product and returns the row as
// stored afterwards. Children are left untouched.
func (r *ProductRepository) SoftDelete(ctx context.Context, id uint, at time.Time) (*models.Product, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	db := r.db.WithContext(ctx)

	res := db.Model(&models.Product{}).Where("id = ?", id).Update("deleted_at", at)
	if res.Error != nil {
		return nil, fmt.Errorf("soft delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var product models.Product
	if err := db.Unscoped().First(&product, id).Error; err != nil {
		return nil, fmt.Errorf("reload product %d: %w", id, err)
	}
	return &product, nil
}

func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", byID("variants")).
		Preload("Variants.Skus", byID("skus")).
		Preload("Variants.Skus.PriceTables", byID("price_tables_skus")).
		Preload("Brand").
		Preload("Category.Subcategories", byID("subcategories")).
		Preload("Subcategory")
}

func byID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id")
	}
}
