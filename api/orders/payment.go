package orders

import (
	"abadas_server/lib"
	"abadas_server/structs"
	"errors"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
)

// PaymentSuccess handles the hosted-payment return redirect:
// GET /orders/payment/success?order_id=N&token=...&PayerID=...
// The token query parameter is the provider's order reference; capturing it
// completes the payment.
func (orm *OrderRoutesManager) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	orderID, err := strconv.ParseInt(query.Get("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		gecho.BadRequest(w,
			gecho.WithMessage("error.payment.invalidOrderId"),
			gecho.Send(),
		)
		return
	}

	paymentID := query.Get("token")
	payerID := query.Get("PayerID")
	if paymentID == "" {
		gecho.BadRequest(w,
			gecho.WithMessage("error.payment.missingToken"),
			gecho.Send(),
		)
		return
	}

	order, err := orm.orderService.CapturePayPal(ctx, orderID, paymentID, payerID)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w,
				gecho.WithMessage("error.payment.orderNotFound"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrPaymentFinalized):
			gecho.Conflict(w,
				gecho.WithMessage("error.payment.alreadyFinalized"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrPaymentFailed):
			orm.logger.Error("Payment capture rejected by provider",
				gecho.Field("order_id", orderID),
				gecho.Field("error", err))
			gecho.BadRequest(w,
				gecho.WithMessage("error.payment.captureFailed"),
				gecho.Send(),
			)
		default:
			orm.logger.Error("Payment capture failed",
				gecho.Field("order_id", orderID),
				gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.payment.captureFailed"),
				gecho.Send(),
			)
		}
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.payment.captured"),
		gecho.WithData(map[string]any{
			"order_id":       order.OrderID,
			"payment_status": order.PaymentStatus,
		}),
		gecho.Send(),
	)
}

// PaymentCancel handles the hosted-payment cancel redirect. The order stays
// PLACED and unpaid; nothing is deleted.
func (orm *OrderRoutesManager) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.URL.Query().Get("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		gecho.BadRequest(w,
			gecho.WithMessage("error.payment.invalidOrderId"),
			gecho.Send(),
		)
		return
	}

	orm.logger.Info("Payment cancelled by customer", gecho.Field("order_id", orderID))

	gecho.Success(w,
		gecho.WithMessage("success.payment.cancelled"),
		gecho.WithData(map[string]any{"order_id": orderID}),
		gecho.Send(),
	)
}

// DirectCapture handles POST /orders/payment/capture: the provider posting
// transaction details as a body instead of redirect query parameters.
func (orm *OrderRoutesManager) DirectCapture(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.PaymentCaptureRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.payment.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	order, err := orm.orderService.ApplyDirectCapture(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w,
				gecho.WithMessage("error.payment.orderNotFound"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrPaymentFinalized):
			gecho.Conflict(w,
				gecho.WithMessage("error.payment.alreadyFinalized"),
				gecho.Send(),
			)
		default:
			orm.logger.Error("Direct capture failed",
				gecho.Field("order_id", body.OrderID),
				gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.payment.captureFailed"),
				gecho.Send(),
			)
		}
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.payment.captured"),
		gecho.WithData(map[string]any{
			"order_id":       order.OrderID,
			"payment_status": order.PaymentStatus,
		}),
		gecho.Send(),
	)
}
