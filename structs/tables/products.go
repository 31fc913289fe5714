package tables

import (
	"strings"
	"time"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// StockStatusFor derives a product's stock status from the sum of its
// inventory rows. This is the single source of truth for the derived field.
func StockStatusFor(totalQuantity int64) StockStatus {
	if totalQuantity <= 0 {
		return StockStatusOutOfStock
	}
	return StockStatusInStock
}

type Category struct {
	tableName struct{}  `bun:"table:categories,alias:c"`
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name" validate:"required,min=2,max=100"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug" validate:"required,min=2,max=120"`
	ImageURL  string    `bun:"image_url" json:"image_url,omitempty"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type Product struct {
	tableName   struct{}  `bun:"table:products,alias:p"`
	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name" validate:"required,min=2,max=100"`
	CategoryID  *int64    `bun:"category_id,type:bigint" json:"category_id,omitempty"`
	PriceCents  uint64    `bun:"price_cents,notnull" json:"price_cents"` // stored in cents
	Description string    `bun:"description,notnull" json:"description"`
	Colors      string    `bun:"colors" json:"colors"` // comma-separated, e.g. "Red,Black"
	Sizes       string    `bun:"sizes" json:"sizes"`   // comma-separated, e.g. "S,M,L"
	ImageURL1   string    `bun:"image_url_1" json:"image_url_1,omitempty"`
	ImageURL2   string    `bun:"image_url_2" json:"image_url_2,omitempty"`
	ImageURL3   string    `bun:"image_url_3" json:"image_url_3,omitempty"`
	ImageURL4   string    `bun:"image_url_4" json:"image_url_4,omitempty"`
	ImageURL5   string    `bun:"image_url_5" json:"image_url_5,omitempty"`
	IsLatest    bool      `bun:"is_latest_arrival,notnull,default:false" json:"is_latest_arrival"`
	StockStatus StockStatus `bun:"stock_status,notnull,default:'out_of_stock'" json:"stock_status"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Category *Category      `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Stock    []ProductStock `bun:"rel:has-many,join:id=product_id" json:"stock,omitempty"`
}

// ColorOptions splits the free-text color list the way the quick-view does.
func (p *Product) ColorOptions() []string {
	return splitOptions(p.Colors)
}

func (p *Product) SizeOptions() []string {
	return splitOptions(p.Sizes)
}

// PrimaryImageURL returns the first populated image slot, or "".
func (p *Product) PrimaryImageURL() string {
	for _, u := range []string{p.ImageURL1, p.ImageURL2, p.ImageURL3, p.ImageURL4, p.ImageURL5} {
		if u != "" {
			return u
		}
	}
	return ""
}

func splitOptions(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ProductStock is one inventory row: the quantity on hand for a single
// (size, color) variant. At most one row exists per (product, size, color).
type ProductStock struct {
	tableName struct{}  `bun:"table:product_stock,alias:ps"`
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductID int64     `bun:"product_id,notnull,unique:product_variant" json:"product_id" validate:"required"`
	Size      string    `bun:"size,notnull,unique:product_variant" json:"size"`
	Color     string    `bun:"color,notnull,unique:product_variant" json:"color"`
	Quantity  int64     `bun:"quantity,notnull,default:0" json:"quantity" validate:"gte=0"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type ShippingOption struct {
	tableName struct{} `bun:"table:shipping_options,alias:so"`
	ID        int64    `bun:"id,pk,autoincrement" json:"id"`
	Name      string   `bun:"name,notnull,unique" json:"name" validate:"required,min=2,max=100"`
	CostCents uint64   `bun:"cost_cents,notnull" json:"cost_cents"`
	IsActive  bool     `bun:"is_active,notnull,default:true" json:"is_active"`
	SortOrder int      `bun:"sort_order,notnull,default:0" json:"sort_order"`
}
