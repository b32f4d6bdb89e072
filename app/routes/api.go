package routes

import (
	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// RegisterAPI mounts the product routes behind the company-key check.
func RegisterAPI(r *router.Router, products *controllers.ProductController, companyKeys []string) {
	api := r.Group("/products", middleware.CompanyKey(companyKeys))

	api.Get("/", "products.index", products.Index)
	api.Get("/filters", "products.filters", products.Filters)
	api.Get("/count", "products.count", products.Count)
	api.Get("/{id}", "products.show", products.Show)
	api.Post("/", "products.store", products.Store)
	api.Put("/{id}", "products.update", products.Update)
	api.Delete("/{id}", "products.destroy", products.Destroy)
}
