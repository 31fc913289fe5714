package orders

import (
	"abadas_server/api/middleware"
	"abadas_server/services"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService *services.OrderService
	imageService *services.ImageService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(
	logger *gecho.Logger,
	orderService *services.OrderService,
	imageService *services.ImageService,
	mw *middleware.Middleware,
) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		imageService: imageService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.With(orm.mw.RateLimit(10, time.Minute)).Post("/checkout", orm.Checkout)

		// Payment provider callbacks
		r.Get("/payment/success", orm.PaymentSuccess)
		r.Get("/payment/cancel", orm.PaymentCancel)
		r.Post("/payment/capture", orm.DirectCapture)

		r.Group(func(r chi.Router) {
			r.Use(orm.mw.UserAuthMiddleware)
			r.Get("/me", orm.MyOrders)
		})
	})
}
