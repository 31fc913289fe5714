package orders

import (
	"abadas_server/api/middleware"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// MyOrders handles GET /orders/me: the authenticated customer's own orders.
func (orm *OrderRoutesManager) MyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w,
			gecho.WithMessage("error.auth.missingSession"),
			gecho.Send(),
		)
		return
	}

	orders, err := orm.orderService.OrdersForUser(r.Context(), claims.Sub)
	if err != nil {
		orm.logger.Error("Failed to fetch user orders",
			gecho.Field("user_id", claims.Sub),
			gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.order.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"orders": orders}),
		gecho.Send(),
	)
}
