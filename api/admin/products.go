package admin

import (
	"abadas_server/lib"
	"abadas_server/structs"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

const maxProductFormMemory = 8 << 20

// productImageFields are the multipart file part names, matched to the five
// image slots on a product.
var productImageFields = []string{"image_1", "image_2", "image_3", "image_4", "image_5"}

// CreateProduct handles POST /admin/products: a multipart form with product
// fields plus up to five images. Images are normalized before storage.
func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, imageURLs, err := ar.parseProductForm(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidRequestBody"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	product, err := ar.productService.CreateProduct(r.Context(), req, imageURLs)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			gecho.Conflict(w,
				gecho.WithMessage("error.products.duplicate"),
				gecho.Send(),
			)
			return
		}
		ar.logger.Error("Failed to create product", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.creationFailed"),
			gecho.Send(),
		)
		return
	}

	ar.cacheService.InvalidateCatalog(r.Context())

	gecho.Success(w,
		gecho.WithMessage("success.products.created"),
		gecho.WithData(map[string]any{"product": product}),
		gecho.Send(),
	)
}

// UpdateProduct handles PUT /admin/products/{id}. Image slots are replaced
// only when new uploads are attached.
func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.productIDParam(w, r)
	if !ok {
		return
	}

	req, imageURLs, err := ar.parseProductForm(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidRequestBody"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	product, err := ar.productService.UpdateProduct(r.Context(), id, req, imageURLs)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.products.notFound"),
				gecho.Send(),
			)
			return
		}
		ar.logger.Error("Failed to update product",
			gecho.Field("product_id", id),
			gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.updateFailed"),
			gecho.Send(),
		)
		return
	}

	ar.cacheService.InvalidateCatalog(r.Context())

	gecho.Success(w,
		gecho.WithMessage("success.products.updated"),
		gecho.WithData(map[string]any{"product": product}),
		gecho.Send(),
	)
}

// GetStock handles GET /admin/products/{id}/stock: the per-variant rows and
// the total the derived stock status is computed from.
func (ar *AdminRoutesManager) GetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.productIDParam(w, r)
	if !ok {
		return
	}

	rows, err := ar.inventoryService.VariantRows(r.Context(), id)
	if err != nil {
		ar.logger.Error("Failed to fetch stock rows",
			gecho.Field("product_id", id),
			gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.stock.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	total, err := ar.inventoryService.TotalStock(r.Context(), id)
	if err != nil {
		ar.logger.Error("Failed to sum stock",
			gecho.Field("product_id", id),
			gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.stock.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"stock": rows,
			"total": total,
		}),
		gecho.Send(),
	)
}

// SetStock handles PUT /admin/products/{id}/stock: absolute quantity for a
// single (size, color) variant. The product's derived stock status follows
// in the same transaction.
func (ar *AdminRoutesManager) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.productIDParam(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.SetStockRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.stock.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	row, err := ar.inventoryService.SetQuantity(r.Context(), id, body.Size, body.Color, body.Quantity)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.products.notFound"),
				gecho.Send(),
			)
			return
		}
		ar.logger.Error("Failed to set stock",
			gecho.Field("product_id", id),
			gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.stock.updateFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.stock.updated"),
		gecho.WithData(map[string]any{"stock": row}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) parseProductForm(r *http.Request) (*structs.ProductUpsertRequest, []string, error) {
	if err := r.ParseMultipartForm(maxProductFormMemory); err != nil {
		return nil, nil, err
	}

	req := &structs.ProductUpsertRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Price:       strings.TrimSpace(r.FormValue("price")),
		Description: r.FormValue("description"),
		Colors:      strings.TrimSpace(r.FormValue("colors")),
		Sizes:       strings.TrimSpace(r.FormValue("sizes")),
		IsLatest:    r.FormValue("is_latest_arrival") == "true",
	}
	if raw := r.FormValue("category_id"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, nil, err
		}
		req.CategoryID = &categoryID
	}

	if err := lib.ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	var imageURLs []string
	for _, field := range productImageFields {
		file, header, err := r.FormFile(field)
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		url, err := ar.imageService.StoreProductImage(file, header)
		file.Close()
		if err != nil {
			return nil, nil, err
		}
		imageURLs = append(imageURLs, url)
	}

	return req, imageURLs, nil
}

func (ar *AdminRoutesManager) productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidProductId"),
			gecho.Send(),
		)
		return 0, false
	}
	return id, true
}
