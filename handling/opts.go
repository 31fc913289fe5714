package handling

import (
	"abadas_server/structs/tables"
	"fmt"
	"net/http"
	"strconv"
)

// OrderListOptions are the back-office order list query parameters.
type OrderListOptions struct {
	Status        *tables.OrderStatus
	PaymentStatus *string
	Page          int
	PageSize      int
}

// ParseOrderListOptions parses query parameters for GET /admin/orders.
func ParseOrderListOptions(r *http.Request) (*OrderListOptions, error) {
	query := r.URL.Query()
	opts := &OrderListOptions{}

	if status := query.Get("status"); status != "" {
		s := tables.OrderStatus(status)
		switch s {
		case tables.OrderStatusPlaced, tables.OrderStatusConfirmed, tables.OrderStatusRejected:
			opts.Status = &s
		default:
			return nil, fmt.Errorf("unknown status %q", status)
		}
	}

	if ps := query.Get("payment_status"); ps != "" {
		opts.PaymentStatus = &ps
	}

	if page := query.Get("page"); page != "" {
		v, err := strconv.Atoi(page)
		if err != nil {
			return nil, err
		}
		opts.Page = v
	}

	if pageSize := query.Get("page_size"); pageSize != "" {
		v, err := strconv.Atoi(pageSize)
		if err != nil {
			return nil, err
		}
		opts.PageSize = v
	}

	return opts, nil
}
