package shop

import (
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// TrendingProducts handles GET /shop/trending: the best-selling products
// ranked by total quantity across all orders.
func (srm *ShopRoutesManager) TrendingProducts(w http.ResponseWriter, r *http.Request) {
	products, err := srm.trendingService.TopProducts(r.Context())
	if err != nil {
		srm.logger.Error("Failed to compute trending products", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.trending.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"products": products}),
		gecho.Send(),
	)
}

// SearchProducts handles GET /shop/search?q=term.
func (srm *ShopRoutesManager) SearchProducts(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		gecho.Success(w,
			gecho.WithData(map[string]any{"results": []any{}}),
			gecho.Send(),
		)
		return
	}

	results, err := srm.productService.Search(r.Context(), term)
	if err != nil {
		srm.logger.Error("Product search failed", gecho.Field("term", term), gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.search.failed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"results": results}),
		gecho.Send(),
	)
}
