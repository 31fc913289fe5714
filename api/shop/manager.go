package shop

import (
	"abadas_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ShopRoutesManager struct {
	logger          *gecho.Logger
	productService  *services.ProductService
	trendingService *services.TrendingService
}

func NewShopRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	trendingService *services.TrendingService,
) *ShopRoutesManager {
	return &ShopRoutesManager{
		logger:          logger,
		productService:  productService,
		trendingService: trendingService,
	}
}

func (srm *ShopRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/shop", func(r chi.Router) {
		r.Get("/categories", srm.ListCategories)
		r.Get("/categories/{slug}", srm.CategoryProducts)
		r.Get("/products/{id}", srm.ProductDetail)
		r.Get("/latest", srm.LatestArrivals)
		r.Get("/trending", srm.TrendingProducts)
		r.Get("/search", srm.SearchProducts)
		r.Get("/shipping-options", srm.ShippingOptions)
	})
}
