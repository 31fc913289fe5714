package tables

import (
	"abadas_server/structs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormattedItemsRendersEachItem(t *testing.T) {
	o := &Order{
		ItemsJSON: `{"id1_black_m": [2, "Tee", "20.00", "Black", "M", "https://cdn/t.jpg"]}`,
	}

	html := string(o.FormattedItems())
	assert.Contains(t, html, "Tee")
	assert.Contains(t, html, "20.00")
	assert.Contains(t, html, "Black")
	assert.Contains(t, html, "https://cdn/t.jpg")
}

func TestFormattedItemsEscapesContent(t *testing.T) {
	o := &Order{
		ItemsJSON: `{"id1_a": [1, "<script>alert(1)</script>", "5.00", "", "", ""]}`,
	}

	html := string(o.FormattedItems())
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestFormattedItemsMalformedSnapshot(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{}`,
		`{"id1_a": [1, "Tee"]}`,
		`{"bad_code": [1, "Tee", "5.00", "", "", ""]}`,
	} {
		o := &Order{ItemsJSON: raw}
		assert.Equal(t, InvalidItemsPlaceholder, string(o.FormattedItems()), "snapshot: %s", raw)
	}
}

func TestPaymentConfirmed(t *testing.T) {
	assert.False(t, (&Order{}).PaymentConfirmed())
	assert.False(t, (&Order{PaymentStatus: PaymentStatusPayID}).PaymentConfirmed())
	assert.True(t, (&Order{PaymentStatus: PaymentStatusPaid}).PaymentConfirmed())
	assert.True(t, (&Order{PaymentStatus: PaymentStatusSuccess}).PaymentConfirmed())
}

func TestValidateItemsJSON(t *testing.T) {
	ok := &Order{ItemsJSON: `{"id1_a": [1, "Tee", "5.00", "", "", ""]}`}
	require.NoError(t, ok.ValidateItemsJSON())

	tooBig := &Order{ItemsJSON: `{"id1_a": "` + strings.Repeat("x", structs.MaxItemsJSONLen) + `"}`}
	assert.ErrorIs(t, tooBig.ValidateItemsJSON(), structs.ErrItemsTooLarge)

	assert.ErrorIs(t, (&Order{ItemsJSON: `[]`}).ValidateItemsJSON(), structs.ErrInvalidItems)
	assert.ErrorIs(t, (&Order{ItemsJSON: `{}`}).ValidateItemsJSON(), structs.ErrInvalidItems)
}
