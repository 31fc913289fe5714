package api

import (
	"abadas_server/api/admin"
	"abadas_server/api/auth"
	"abadas_server/api/health"
	"abadas_server/api/middleware"
	"abadas_server/api/orders"
	"abadas_server/api/shop"
	"abadas_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	shopRoutes   *shop.ShopRoutesManager
	healthRoutes *health.HealthRoutesManager
	authRoutes   *auth.AuthRoutesManager
	adminRoutes  *admin.AdminRoutesManager
	orderRoutes  *orders.OrderRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		shopRoutes:   shop.NewShopRoutesManager(logger, sm.ProductService, sm.TrendingService),
		healthRoutes: health.NewHealthRoutesManager(sm.HealthService),
		authRoutes:   auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
		adminRoutes: admin.NewAdminRoutesManager(logger, sm.ProductService, sm.OrderService,
			sm.InventoryService, sm.ImageService, sm.CacheService, mw),
		orderRoutes: orders.NewOrderRoutesManager(logger, sm.OrderService, sm.ImageService, mw),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.shopRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
}
