package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/pkg/clock"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// ErrProductNotFound is returned when the id does not name an active product.
var ErrProductNotFound = errors.New("product not found")

// ProductService sequences the storage calls behind every product operation.
// Create and Update run inside one transaction each.
type ProductService struct {
	repo   *repositories.ProductRepository
	clock  clock.Clock
	filter VariantFilter
}

type Option func(*ProductService)

func WithClock(c clock.Clock) Option {
	return func(s *ProductService) { s.clock = c }
}

func WithVariantFilter(f VariantFilter) Option {
	return func(s *ProductService) { s.filter = f }
}

func NewProductService(repo *repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:   repo,
		clock:  clock.Real{},
		filter: DefaultVariantFilter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every active product with inconsistent variants removed.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		s.filterVariants(&products[i])
	}
	return products, nil
}

// Get returns one active product with inconsistent variants removed.
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	s.filterVariants(product)
	return product, nil
}

// Create stores the product and its whole variant tree atomically and
// returns it with every generated id filled in.
func (s *ProductService) Create(ctx context.Context, req requests.CreateProductRequest) (*models.Product, error) {
	product := req.Product()

	err := s.repo.Transaction(ctx, func(tx *repositories.ProductRepository) error {
		if err := tx.CreateProduct(ctx, &product); err != nil {
			return err
		}
		return createVariants(ctx, tx, product.ID, product.Variants)
	})
	if err != nil {
		metrics.RecordMutation("create", "error")
		return nil, fmt.Errorf("create product: %w", err)
	}

	metrics.RecordMutation("create", "ok")
	return &product, nil
}

// Update patches the product's scalar fields, then replaces its variants,
// SKUs and price-table associations with the ones in req. The returned
// product carries no relations. Nothing is written when the product does not
// exist.
func (s *ProductService) Update(ctx context.Context, id uint, req requests.UpdateProductRequest) (*models.Product, error) {
	var updated *models.Product

	err := s.repo.Transaction(ctx, func(tx *repositories.ProductRepository) error {
		p, err := tx.Patch(ctx, id, req.Fields())
		if err != nil {
			return err
		}
		updated = p

		if err := tx.DeleteVariants(ctx, id); err != nil {
			return err
		}
		return createVariants(ctx, tx, id, requests.BuildVariants(req.Variants))
	})
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		metrics.RecordMutation("update", "not_found")
		return nil, ErrProductNotFound
	case err != nil:
		metrics.RecordMutation("update", "error")
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	metrics.RecordMutation("update", "ok")
	return updated, nil
}

// Delete hides the product by stamping deleted_at. Variants and SKUs stay.
func (s *ProductService) Delete(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.SoftDelete(ctx, id, s.clock.Now())
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		metrics.RecordMutation("delete", "not_found")
		return nil, ErrProductNotFound
	case err != nil:
		metrics.RecordMutation("delete", "error")
		return nil, err
	}

	metrics.RecordMutation("delete", "ok")
	return product, nil
}

// Count returns the number of active products.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}

// Filters computes the facet summary over active products.
func (s *ProductService) Filters(ctx context.Context) (FilterSummary, error) {
	products, err := s.repo.FindActiveForFilters(ctx)
	if err != nil {
		return FilterSummary{}, err
	}
	return ComputeFilters(products), nil
}

func (s *ProductService) filterVariants(p *models.Product) {
	kept := s.filter.Apply(p.Variants)
	if hidden := len(p.Variants) - len(kept); hidden > 0 {
		metrics.VariantsHidden.Add(float64(hidden))
	}
	p.Variants = kept
}

// createVariants writes variants, then each variant's SKUs, then each SKU's
// associations, filling in ids and foreign keys as it goes.
func createVariants(ctx context.Context, tx *repositories.ProductRepository, productID uint, variants []models.Variant) error {
	for i := range variants {
		v := &variants[i]
		v.ProductID = productID
		if err := tx.CreateVariant(ctx, v); err != nil {
			return err
		}

		for j := range v.Skus {
			sku := &v.Skus[j]
			sku.VariantID = v.ID
			if err := tx.CreateSku(ctx, sku); err != nil {
				return err
			}

			for k := range sku.PriceTables {
				pt := &sku.PriceTables[k]
				pt.SkuID = sku.ID
				if err := tx.CreatePriceTableSku(ctx, pt); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
