package handling

import (
	"abadas_server/structs/tables"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderListOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/orders?status=PLACED&payment_status=PayID&page=2&page_size=25", nil)

	opts, err := ParseOrderListOptions(r)
	require.NoError(t, err)
	require.NotNil(t, opts.Status)
	assert.Equal(t, tables.OrderStatusPlaced, *opts.Status)
	require.NotNil(t, opts.PaymentStatus)
	assert.Equal(t, "PayID", *opts.PaymentStatus)
	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 25, opts.PageSize)
}

func TestParseOrderListOptionsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/orders", nil)

	opts, err := ParseOrderListOptions(r)
	require.NoError(t, err)
	assert.Nil(t, opts.Status)
	assert.Nil(t, opts.PaymentStatus)
	assert.Zero(t, opts.Page)
	assert.Zero(t, opts.PageSize)
}

func TestParseOrderListOptionsRejectsBadInput(t *testing.T) {
	for _, url := range []string{
		"/admin/orders?status=SHIPPED",
		"/admin/orders?page=abc",
		"/admin/orders?page_size=x",
	} {
		r := httptest.NewRequest("GET", url, nil)
		_, err := ParseOrderListOptions(r)
		assert.Error(t, err, url)
	}
}
