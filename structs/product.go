package structs

// ProductUpsertRequest is the admin create/update payload. Images arrive as
// multipart file parts alongside these fields and are normalized before
// storage, so they are not part of the JSON body.
type ProductUpsertRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	CategoryID  *int64 `json:"category_id" validate:"omitempty,gt=0"`
	Price       string `json:"price" validate:"required"` // decimal string
	Description string `json:"description" validate:"required"`
	Colors      string `json:"colors" validate:"omitempty,max=500"`
	Sizes       string `json:"sizes" validate:"omitempty,max=500"`
	IsLatest    bool   `json:"is_latest_arrival"`
}

type CategoryUpsertRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Slug     string `json:"slug" validate:"required,min=2,max=120"`
	IsActive *bool  `json:"is_active"`
}

type SetStockRequest struct {
	Size     string `json:"size" validate:"required,max=50"`
	Color    string `json:"color" validate:"required,max=50"`
	Quantity int64  `json:"quantity" validate:"gte=0"`
}

type ShippingOptionRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Cost      string `json:"cost" validate:"required"` // decimal string
	IsActive  *bool  `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// ProductSearchResult is the flat shape the storefront search box consumes.
type ProductSearchResult struct {
	ID          int64  `json:"id"`
	Name        string `json:"product_name"`
	Price       string `json:"product_price"`
	ImageURL    string `json:"product_image_url"`
	StockStatus string `json:"stock_status"`
}
