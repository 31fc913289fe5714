package admin

import (
	"abadas_server/api/middleware"
	"abadas_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger           *gecho.Logger
	productService   *services.ProductService
	orderService     *services.OrderService
	inventoryService *services.InventoryService
	imageService     *services.ImageService
	cacheService     *services.CacheService
	mw               *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	orderService *services.OrderService,
	inventoryService *services.InventoryService,
	imageService *services.ImageService,
	cacheService *services.CacheService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:           logger,
		productService:   productService,
		orderService:     orderService,
		inventoryService: inventoryService,
		imageService:     imageService,
		cacheService:     cacheService,
		mw:               mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)
		r.Use(ar.mw.AdminAuthMiddleware)

		// Order fulfillment
		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrderDetails)
		r.Post("/orders/{id}/confirm", ar.ConfirmOrder)
		r.Post("/orders/{id}/reject", ar.RejectOrder)

		// Catalog management
		r.Post("/products", ar.CreateProduct)
		r.Put("/products/{id}", ar.UpdateProduct)
		r.Get("/products/{id}/stock", ar.GetStock)
		r.Put("/products/{id}/stock", ar.SetStock)

		r.Post("/categories", ar.CreateCategory)
		r.Put("/categories/{id}", ar.UpdateCategory)
		r.Delete("/categories/{id}", ar.DeleteCategory)

		r.Post("/shipping-options", ar.UpsertShippingOption)
	})
}
