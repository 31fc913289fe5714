package admin

import (
	"abadas_server/handling"
	"abadas_server/lib"
	"errors"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListOrders handles GET /admin/orders, newest first, optionally filtered
// by ?status= and ?payment_status=.
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseOrderListOptions(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	orders, pagination, err := ar.orderService.ListOrders(r.Context(), opts.Status, opts.PaymentStatus, opts.Page, opts.PageSize)
	if err != nil {
		ar.logger.Error("Failed to list orders", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.order.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders":     orders,
			"pagination": pagination,
		}),
		gecho.Send(),
	)
}

// GetOrderDetails handles GET /admin/orders/{id}. The items snapshot is
// rendered alongside the raw order; a corrupt snapshot yields the
// placeholder text instead of an error.
func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	orderID, ok := ar.orderIDParam(w, r)
	if !ok {
		return
	}

	order, err := ar.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.order.notFound"),
				gecho.Send(),
			)
			return
		}
		ar.logger.Error("Failed to fetch order",
			gecho.Field("order_id", orderID),
			gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.order.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order":           order,
			"formatted_items": order.FormattedItems(),
		}),
		gecho.Send(),
	)
}

// ConfirmOrder handles POST /admin/orders/{id}/confirm. Idempotent: an
// already-decided order reports no change and sends no email.
func (ar *AdminRoutesManager) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := ar.orderIDParam(w, r)
	if !ok {
		return
	}

	changed, err := ar.orderService.ConfirmOrder(r.Context(), orderID)
	if err != nil {
		ar.respondTransitionError(w, orderID, err)
		return
	}

	if changed {
		ar.cacheService.InvalidateTrending(r.Context())
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.confirmed"),
		gecho.WithData(map[string]any{
			"order_id": orderID,
			"changed":  changed,
		}),
		gecho.Send(),
	)
}

// RejectOrder handles POST /admin/orders/{id}/reject with the same
// idempotent semantics as confirmation.
func (ar *AdminRoutesManager) RejectOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := ar.orderIDParam(w, r)
	if !ok {
		return
	}

	changed, err := ar.orderService.RejectOrder(r.Context(), orderID)
	if err != nil {
		ar.respondTransitionError(w, orderID, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.rejected"),
		gecho.WithData(map[string]any{
			"order_id": orderID,
			"changed":  changed,
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidOrderId"),
			gecho.Send(),
		)
		return 0, false
	}
	return id, true
}

func (ar *AdminRoutesManager) respondTransitionError(w http.ResponseWriter, orderID int64, err error) {
	if errors.Is(err, lib.ErrNotFound) {
		gecho.NotFound(w,
			gecho.WithMessage("error.order.notFound"),
			gecho.Send(),
		)
		return
	}
	ar.logger.Error("Order status transition failed",
		gecho.Field("order_id", orderID),
		gecho.Field("error", err))
	gecho.InternalServerError(w,
		gecho.WithMessage("error.order.transitionFailed"),
		gecho.Send(),
	)
}
