package services

import (
	"abadas_server/database"
	"abadas_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService      *AuthService
	EmailService     *EmailService
	CacheService     *CacheService
	HealthService    *HealthService
	ImageService     *ImageService
	ProductService   *ProductService
	InventoryService *InventoryService
	OrderService     *OrderService
	TrendingService  *TrendingService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) (*ServiceManager, error) {
	authService := NewAuthService(cfg, logger, db)
	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	imageService := NewImageService(logger, cfg)
	productService := NewProductService(logger, db, cacheService)
	inventoryService := NewInventoryService(logger, NewInventoryStore(db))

	paypalService, err := NewPayPalService(logger, cfg)
	if err != nil {
		return nil, err
	}

	orderService := NewOrderService(logger, cfg, db,
		NewOrderStore(db), paypalService, emailService, inventoryService)
	trendingService := NewTrendingService(logger, NewTrendingStore(db), cacheService)

	return &ServiceManager{
		AuthService:      authService,
		EmailService:     emailService,
		CacheService:     cacheService,
		HealthService:    healthService,
		ImageService:     imageService,
		ProductService:   productService,
		InventoryService: inventoryService,
		OrderService:     orderService,
		TrendingService:  trendingService,
	}, nil
}
