package structs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductIDFromCode(t *testing.T) {
	id, err := ProductIDFromCode("id5_black_m")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	id, err = ProductIDFromCode("id123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	_, err = ProductIDFromCode("product_5")
	assert.ErrorIs(t, err, ErrInvalidItems)

	_, err = ProductIDFromCode("")
	assert.ErrorIs(t, err, ErrInvalidItems)
}

func TestParseOrderItems(t *testing.T) {
	raw := `{
		"id2_red_s": [1, "Hoodie", "45.00", "Red", "S", "https://cdn/h.jpg"],
		"id1_black_m": [3, "Tee", "20.00", "Black", "M", "https://cdn/t.jpg"]
	}`

	items, err := ParseOrderItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Deterministic order: ascending product id
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, "Tee", items[0].Name)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "20.00", items[0].Price)
	assert.Equal(t, "Black", items[0].Color)
	assert.Equal(t, "M", items[0].Size)

	assert.Equal(t, int64(2), items[1].ProductID)
	assert.Equal(t, "Hoodie", items[1].Name)
}

func TestParseOrderItemsStringQuantity(t *testing.T) {
	// Historical snapshots carry quantity as a string
	raw := `{"id7_a": ["4", "Cap", "15.00", "Green", "One Size", ""]}`

	items, err := ParseOrderItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestParseOrderItemsRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `not json at all`,
		"json array":      `[1, 2, 3]`,
		"empty object":    `{}`,
		"short tuple":     `{"id1_a": [2, "Tee", "20.00"]}`,
		"long tuple":      `{"id1_a": [2, "Tee", "20.00", "Black", "M", "url", "extra"]}`,
		"bad quantity":    `{"id1_a": [{"q": 2}, "Tee", "20.00", "Black", "M", "url"]}`,
		"bad code":        `{"sku-1": [2, "Tee", "20.00", "Black", "M", "url"]}`,
		"non-string name": `{"id1_a": [2, 42, "20.00", "Black", "M", "url"]}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOrderItems(raw)
			assert.ErrorIs(t, err, ErrInvalidItems)
		})
	}
}

func TestEncodeOrderItemsRoundTrip(t *testing.T) {
	items := []OrderItem{
		{Code: "id1_black_m", ProductID: 1, Quantity: 2, Name: "Tee", Price: "20.00", Color: "Black", Size: "M", ImageURL: "u1"},
		{ProductID: 9, Quantity: 1, Name: "Cap", Price: "15.00", Color: "Green", Size: "One Size", ImageURL: "u2"},
	}

	raw, err := EncodeOrderItems(items)
	require.NoError(t, err)

	decoded, err := ParseOrderItems(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, int64(1), decoded[0].ProductID)
	// Synthesized code embeds the product id
	assert.Equal(t, int64(9), decoded[1].ProductID)
}

func TestEncodeOrderItemsSizeBound(t *testing.T) {
	big := []OrderItem{{
		Code:      "id1_a",
		ProductID: 1,
		Quantity:  1,
		Name:      strings.Repeat("x", MaxItemsJSONLen),
		Price:     "1.00",
	}}

	_, err := EncodeOrderItems(big)
	assert.ErrorIs(t, err, ErrItemsTooLarge)

	_, err = EncodeOrderItems(nil)
	assert.ErrorIs(t, err, ErrInvalidItems)
}
