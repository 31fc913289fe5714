package services

import (
	"abadas_server/database"
	"abadas_server/lib"
	"abadas_server/structs"
	"abadas_server/structs/tables"
	"context"
	"time"

	"github.com/MonkyMars/gecho"
)

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// GetProductByID loads a single product with its category and stock rows.
func (ps *ProductService) GetProductByID(ctx context.Context, id int64) (*tables.Product, error) {
	product, err := database.Query[tables.Product](ps.db).
		Where("id", id).
		Relation("Category").
		Relation("Stock").
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return product, nil
}

// ActiveCategories lists the categories shown in storefront navigation,
// ordered by name.
func (ps *ProductService) ActiveCategories(ctx context.Context) ([]tables.Category, error) {
	categories, err := database.Query[tables.Category](ps.db).
		Where("is_active", true).
		OrderBy("name", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return categories, nil
}

// CategoryBySlug resolves an active category; unknown or disabled slugs
// report not-found so the storefront can show its friendly message.
func (ps *ProductService) CategoryBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	category, err := database.Query[tables.Category](ps.db).
		Where("slug", slug).
		Where("is_active", true).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return category, nil
}

// ProductsByCategory lists a category's products for the shop page.
func (ps *ProductService) ProductsByCategory(ctx context.Context, categoryID int64) ([]tables.Product, error) {
	products, err := database.Query[tables.Product](ps.db).
		WhereRaw("category_id = ?", categoryID).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return products, nil
}

// LatestArrivals lists products flagged for the new-arrivals rail.
func (ps *ProductService) LatestArrivals(ctx context.Context) ([]tables.Product, error) {
	products, err := database.Query[tables.Product](ps.db).
		Where("is_latest_arrival", true).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return products, nil
}

// Search does the storefront name search, returning the flat shape the
// search box renders.
func (ps *ProductService) Search(ctx context.Context, term string) ([]structs.ProductSearchResult, error) {
	products, err := database.Query[tables.Product](ps.db).
		ILike("name", term).
		OrderBy("name", database.ASC).
		Limit(25).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	results := make([]structs.ProductSearchResult, 0, len(products))
	for _, p := range products {
		results = append(results, structs.ProductSearchResult{
			ID:          p.ID,
			Name:        p.Name,
			Price:       lib.FormatCents(p.PriceCents),
			ImageURL:    p.PrimaryImageURL(),
			StockStatus: string(p.StockStatus),
		})
	}
	return results, nil
}

// CategoryCounts returns product counts per active category slug, cached
// briefly since the storefront header asks on every page.
func (ps *ProductService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	if counts, ok := ps.cacheService.GetCategoryCounts(ctx); ok {
		return counts, nil
	}

	categories, err := ps.ActiveCategories(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(categories))
	for _, cat := range categories {
		n, err := database.Query[tables.Product](ps.db).
			WhereRaw("category_id = ?", cat.ID).
			Count(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		counts[cat.Slug] = n
	}

	ps.cacheService.SetCategoryCounts(ctx, counts)
	return counts, nil
}

// CreateProduct persists a new product. Image URLs arrive already normalized
// and stored by the caller.
func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.ProductUpsertRequest, imageURLs []string) (*tables.Product, error) {
	priceCents, err := lib.ParsePriceCents(req.Price)
	if err != nil {
		return nil, err
	}

	product := &tables.Product{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		PriceCents:  priceCents,
		Description: req.Description,
		Colors:      req.Colors,
		Sizes:       req.Sizes,
		IsLatest:    req.IsLatest,
		StockStatus: tables.StockStatusOutOfStock, // no inventory rows yet
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	assignImageSlots(product, imageURLs)

	if _, err := ps.db.NewInsert().Model(product).Returning("*").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}

	ps.logger.Info("Product created",
		gecho.Field("product_id", product.ID),
		gecho.Field("name", product.Name))
	return product, nil
}

// UpdateProduct rewrites the editable fields. Image slots are only replaced
// when new uploads arrived.
func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, req *structs.ProductUpsertRequest, imageURLs []string) (*tables.Product, error) {
	product, err := ps.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	priceCents, err := lib.ParsePriceCents(req.Price)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.CategoryID = req.CategoryID
	product.PriceCents = priceCents
	product.Description = req.Description
	product.Colors = req.Colors
	product.Sizes = req.Sizes
	product.IsLatest = req.IsLatest
	product.UpdatedAt = time.Now()
	if len(imageURLs) > 0 {
		assignImageSlots(product, imageURLs)
	}

	_, err = ps.db.NewUpdate().
		Model(product).
		WherePK().
		ExcludeColumn("stock_status", "created_at").
		Exec(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return product, nil
}

func assignImageSlots(product *tables.Product, urls []string) {
	slots := []*string{
		&product.ImageURL1, &product.ImageURL2, &product.ImageURL3,
		&product.ImageURL4, &product.ImageURL5,
	}
	for i, slot := range slots {
		if i < len(urls) {
			*slot = urls[i]
		}
	}
}

// CreateCategory adds a storefront category.
func (ps *ProductService) CreateCategory(ctx context.Context, req *structs.CategoryUpsertRequest) (*tables.Category, error) {
	category := &tables.Category{
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if _, err := ps.db.NewInsert().Model(category).Returning("*").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}
	return category, nil
}

// UpdateCategory edits a category, including soft-disabling it. Categories
// are disabled rather than deleted so products keep a valid reference.
func (ps *ProductService) UpdateCategory(ctx context.Context, id int64, req *structs.CategoryUpsertRequest) (*tables.Category, error) {
	category, err := database.Query[tables.Category](ps.db).
		Where("id", id).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	category.Name = req.Name
	category.Slug = req.Slug
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()

	if _, err := ps.db.NewUpdate().Model(category).WherePK().Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}
	return category, nil
}

// DeleteCategory removes a category outright. The foreign key is RESTRICT:
// a category still referenced by products comes back as ErrReferenced and
// must be soft-disabled instead.
func (ps *ProductService) DeleteCategory(ctx context.Context, id int64) error {
	res, err := ps.db.NewDelete().
		Model((*tables.Category)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// ActiveShippingOptions lists the shipping choices checkout offers.
func (ps *ProductService) ActiveShippingOptions(ctx context.Context) ([]tables.ShippingOption, error) {
	options, err := database.Query[tables.ShippingOption](ps.db).
		Where("is_active", true).
		OrderBy("sort_order", database.ASC).
		OrderBy("name", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return options, nil
}

// UpsertShippingOption creates or updates a shipping option by name.
func (ps *ProductService) UpsertShippingOption(ctx context.Context, req *structs.ShippingOptionRequest) (*tables.ShippingOption, error) {
	costCents, err := lib.ParsePriceCents(req.Cost)
	if err != nil {
		return nil, err
	}

	option := &tables.ShippingOption{
		Name:      req.Name,
		CostCents: costCents,
		IsActive:  true,
		SortOrder: req.SortOrder,
	}
	if req.IsActive != nil {
		option.IsActive = *req.IsActive
	}

	_, err = ps.db.NewInsert().
		Model(option).
		On("CONFLICT (name) DO UPDATE").
		Set("cost_cents = EXCLUDED.cost_cents").
		Set("is_active = EXCLUDED.is_active").
		Set("sort_order = EXCLUDED.sort_order").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return option, nil
}
