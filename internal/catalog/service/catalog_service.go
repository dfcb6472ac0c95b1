package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-wms/internal/catalog/entity"
	"github.com/bitfantasy/nimo-wms/internal/catalog/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService 商品目录服务
type CatalogService struct {
	repo *repository.CatalogRepository
}

func NewCatalogService(repo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Unit     string          `json:"unit"`
	MinStock int             `json:"min_stock" binding:"gte=0"`
	MaxStock int             `json:"max_stock" binding:"gte=0"`
	Price    decimal.Decimal `json:"price"`
	IsBulk   bool            `json:"is_bulk"`
}

// CreateVariantRequest 创建变体请求
type CreateVariantRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	BrandID   *string `json:"brand_id"`
	Barcode   string  `json:"barcode" binding:"required"`
}

// CreateBrandRequest 创建品牌请求
type CreateBrandRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListProducts 商品列表
func (s *CatalogService) ListProducts(ctx context.Context, page, pageSize int, search string) ([]entity.Product, int64, error) {
	return s.repo.FindProducts(ctx, page, pageSize, search)
}

// GetProduct 商品详情
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return s.repo.FindProductByID(ctx, id)
}

// CreateProduct 创建商品
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*entity.Product, error) {
	if req.MaxStock > 0 && req.MaxStock < req.MinStock {
		return nil, fmt.Errorf("max_stock must be >= min_stock")
	}

	unit := req.Unit
	if unit == "" {
		unit = "units"
	}

	product := &entity.Product{
		ID:       uuid.New().String()[:32],
		Name:     req.Name,
		Unit:     unit,
		MinStock: req.MinStock,
		MaxStock: req.MaxStock,
		Price:    req.Price,
		IsBulk:   req.IsBulk,
		IsActive: true,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.repo.FindProductByID(ctx, product.ID)
}

// ListVariants 某商品下的全部变体
func (s *CatalogService) ListVariants(ctx context.Context, productID string) ([]entity.ProductVariant, error) {
	return s.repo.FindVariantsByProduct(ctx, productID)
}

// GetVariantByBarcode 扫码查询变体
func (s *CatalogService) GetVariantByBarcode(ctx context.Context, barcode string) (*entity.ProductVariant, error) {
	return s.repo.FindVariantByBarcode(ctx, barcode)
}

// CreateVariant 创建变体
func (s *CatalogService) CreateVariant(ctx context.Context, req *CreateVariantRequest) (*entity.ProductVariant, error) {
	if _, err := s.repo.FindProductByID(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	variant := &entity.ProductVariant{
		ID:        uuid.New().String()[:32],
		ProductID: req.ProductID,
		BrandID:   req.BrandID,
		Barcode:   req.Barcode,
		IsActive:  true,
	}

	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}
	return s.repo.FindVariantByID(ctx, variant.ID)
}

// ListBrands 品牌列表
func (s *CatalogService) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	return s.repo.FindBrands(ctx)
}

// CreateBrand 创建品牌
func (s *CatalogService) CreateBrand(ctx context.Context, req *CreateBrandRequest) (*entity.Brand, error) {
	brand := &entity.Brand{
		ID:       uuid.New().String()[:32],
		Name:     req.Name,
		IsActive: true,
	}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}
