package shop

import (
	"abadas_server/lib"
	"errors"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListCategories handles GET /shop/categories: the active categories plus
// per-category product counts for the storefront navigation.
func (srm *ShopRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := srm.productService.ActiveCategories(ctx)
	if err != nil {
		srm.logger.Error("Failed to fetch categories", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.categories.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	counts, err := srm.productService.CategoryCounts(ctx)
	if err != nil {
		srm.logger.Warn("Failed to fetch category counts", gecho.Field("error", err))
		counts = map[string]int{}
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": categories,
			"counts":     counts,
		}),
		gecho.Send(),
	)
}

// CategoryProducts handles GET /shop/categories/{slug}: the category page.
func (srm *ShopRoutesManager) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	category, err := srm.productService.CategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.categories.notFound"),
				gecho.Send(),
			)
			return
		}
		srm.logger.Error("Failed to fetch category", gecho.Field("slug", slug), gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.categories.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	products, err := srm.productService.ProductsByCategory(ctx, category.ID)
	if err != nil {
		srm.logger.Error("Failed to fetch category products",
			gecho.Field("slug", slug),
			gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"category": category,
			"products": products,
		}),
		gecho.Send(),
	)
}

// ProductDetail handles GET /shop/products/{id}: the quick-view payload
// with variant options and stock.
func (srm *ShopRoutesManager) ProductDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidProductId"),
			gecho.Send(),
		)
		return
	}

	product, err := srm.productService.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.products.notFound"),
				gecho.Send(),
			)
			return
		}
		srm.logger.Error("Failed to fetch product", gecho.Field("id", id), gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.failedToFetchOne"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": product,
			"colors":  product.ColorOptions(),
			"sizes":   product.SizeOptions(),
		}),
		gecho.Send(),
	)
}

// LatestArrivals handles GET /shop/latest.
func (srm *ShopRoutesManager) LatestArrivals(w http.ResponseWriter, r *http.Request) {
	products, err := srm.productService.LatestArrivals(r.Context())
	if err != nil {
		srm.logger.Error("Failed to fetch latest arrivals", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"products": products}),
		gecho.Send(),
	)
}

// ShippingOptions handles GET /shop/shipping-options for the checkout form.
func (srm *ShopRoutesManager) ShippingOptions(w http.ResponseWriter, r *http.Request) {
	options, err := srm.productService.ActiveShippingOptions(r.Context())
	if err != nil {
		srm.logger.Error("Failed to fetch shipping options", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.shipping.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"shipping_options": options}),
		gecho.Send(),
	)
}
