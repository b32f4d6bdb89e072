package main

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/app"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// newApplication wires repository → service → controller → routes on db.
// db may be nil when only the route table is needed.
func newApplication(db *gorm.DB) *app.Application {
	repo := repositories.NewProductRepository(db)
	svc := services.NewProductService(repo,
		services.WithVariantFilter(services.VariantFilter{RetainUnpriced: config.RetainUnpricedVariants()}),
	)
	products := controllers.NewProductController(svc)

	application := app.New(app.OptionsFromConfig()).
		Routes(func(r *router.Router) {
			routes.RegisterAPI(r, products, config.CompanyKeys())
		})

	if db != nil {
		application.WithProbe(dbProbe(db))
	}
	return application
}

func dbProbe(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error { return database.Ping(ctx, db) }
}

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Open(database.ConfigFromEnv())
}
