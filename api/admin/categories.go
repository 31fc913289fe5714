package admin

import (
	"abadas_server/lib"
	"abadas_server/structs"
	"errors"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// CreateCategory handles POST /admin/categories.
func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryUpsertRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.categories.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	category, err := ar.productService.CreateCategory(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			gecho.Conflict(w,
				gecho.WithMessage("error.categories.duplicate"),
				gecho.Send(),
			)
			return
		}
		ar.logger.Error("Failed to create category", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.categories.creationFailed"),
			gecho.Send(),
		)
		return
	}

	ar.cacheService.InvalidateCatalog(r.Context())

	gecho.Success(w,
		gecho.WithMessage("success.categories.created"),
		gecho.WithData(map[string]any{"category": category}),
		gecho.Send(),
	)
}

// UpdateCategory handles PUT /admin/categories/{id}, including is_active
// toggles for soft-disabling.
func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.categoryIDParam(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryUpsertRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.categories.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	category, err := ar.productService.UpdateCategory(r.Context(), id, body)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w,
				gecho.WithMessage("error.categories.notFound"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrConflict):
			gecho.Conflict(w,
				gecho.WithMessage("error.categories.duplicate"),
				gecho.Send(),
			)
		default:
			ar.logger.Error("Failed to update category",
				gecho.Field("category_id", id),
				gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.categories.updateFailed"),
				gecho.Send(),
			)
		}
		return
	}

	ar.cacheService.InvalidateCatalog(r.Context())

	gecho.Success(w,
		gecho.WithMessage("success.categories.updated"),
		gecho.WithData(map[string]any{"category": category}),
		gecho.Send(),
	)
}

// DeleteCategory handles DELETE /admin/categories/{id}. A category still
// referenced by products cannot be removed and must be disabled instead.
func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.categoryIDParam(w, r)
	if !ok {
		return
	}

	if err := ar.productService.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w,
				gecho.WithMessage("error.categories.notFound"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrReferenced):
			gecho.Conflict(w,
				gecho.WithMessage("error.categories.stillReferenced"),
				gecho.Send(),
			)
		default:
			ar.logger.Error("Failed to delete category",
				gecho.Field("category_id", id),
				gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.categories.deletionFailed"),
				gecho.Send(),
			)
		}
		return
	}

	ar.cacheService.InvalidateCatalog(r.Context())

	gecho.Success(w,
		gecho.WithMessage("success.categories.deleted"),
		gecho.WithData(map[string]any{"category_id": id}),
		gecho.Send(),
	)
}

// UpsertShippingOption handles POST /admin/shipping-options.
func (ar *AdminRoutesManager) UpsertShippingOption(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ShippingOptionRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.shipping.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	option, err := ar.productService.UpsertShippingOption(r.Context(), body)
	if err != nil {
		ar.logger.Error("Failed to upsert shipping option", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.shipping.updateFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.shipping.updated"),
		gecho.WithData(map[string]any{"shipping_option": option}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) categoryIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		gecho.BadRequest(w,
			gecho.WithMessage("error.categories.invalidCategoryId"),
			gecho.Send(),
		)
		return 0, false
	}
	return id, true
}
