package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusFor(t *testing.T) {
	assert.Equal(t, StockStatusOutOfStock, StockStatusFor(0))
	assert.Equal(t, StockStatusOutOfStock, StockStatusFor(-3))
	assert.Equal(t, StockStatusInStock, StockStatusFor(1))
	assert.Equal(t, StockStatusInStock, StockStatusFor(500))
}

func TestProductOptionSplitting(t *testing.T) {
	p := &Product{
		Colors: "Red, Black ,Green",
		Sizes:  "S,M,,L ",
	}

	assert.Equal(t, []string{"Red", "Black", "Green"}, p.ColorOptions())
	assert.Equal(t, []string{"S", "M", "L"}, p.SizeOptions())

	empty := &Product{}
	assert.Nil(t, empty.ColorOptions())
	assert.Nil(t, empty.SizeOptions())
}

func TestPrimaryImageURL(t *testing.T) {
	p := &Product{ImageURL2: "second", ImageURL5: "fifth"}
	assert.Equal(t, "second", p.PrimaryImageURL())

	assert.Equal(t, "", (&Product{}).PrimaryImageURL())
}
