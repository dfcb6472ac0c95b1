package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-wms/internal/srm/entity"
	"github.com/bitfantasy/nimo-wms/internal/srm/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catrepo "github.com/bitfantasy/nimo-wms/internal/catalog/repository"
)

// OfferService 供货条款服务。每次增删改后对所属商品触发评分重算
type OfferService struct {
	repo      *repository.OfferRepository
	suppliers *repository.SupplierRepository
	catalog   *catrepo.CatalogRepository
	scoring   *ScoringService
}

func NewOfferService(repo *repository.OfferRepository, suppliers *repository.SupplierRepository, catalog *catrepo.CatalogRepository, scoring *ScoringService) *OfferService {
	return &OfferService{
		repo:      repo,
		suppliers: suppliers,
		catalog:   catalog,
		scoring:   scoring,
	}
}

// CreateOfferRequest 创建供货条款请求。起订量强制数值类型
type CreateOfferRequest struct {
	VariantID   string          `json:"variant_id" binding:"required"`
	SupplierID  string          `json:"supplier_id" binding:"required"`
	Cost        decimal.Decimal `json:"cost"`
	MinOrderQty int             `json:"min_order_qty" binding:"required,gt=0"`
	IsActive    *bool           `json:"is_active"`
}

// UpdateOfferRequest 更新供货条款请求
type UpdateOfferRequest struct {
	Cost        *decimal.Decimal `json:"cost"`
	MinOrderQty *int             `json:"min_order_qty"`
	IsActive    *bool            `json:"is_active"`
}

// List 获取供货条款列表
func (s *OfferService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SupplyOffer, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供货条款详情
func (s *OfferService) Get(ctx context.Context, id string) (*entity.SupplyOffer, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供货条款
func (s *OfferService) Create(ctx context.Context, req *CreateOfferRequest) (*entity.SupplyOffer, error) {
	if req.Cost.IsNegative() {
		return nil, fmt.Errorf("cost must be >= 0")
	}

	if _, err := s.catalog.FindVariantByID(ctx, req.VariantID); err != nil {
		// 目录仓库的未找到哨兵翻译为本模块的哨兵，处理层按后者分类
		if errors.Is(err, catrepo.ErrNotFound) {
			return nil, fmt.Errorf("variant not found: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.suppliers.FindByID(ctx, req.SupplierID); err != nil {
		return nil, fmt.Errorf("supplier not found: %w", err)
	}

	offer := &entity.SupplyOffer{
		ID:          uuid.New().String()[:32],
		VariantID:   req.VariantID,
		SupplierID:  req.SupplierID,
		Cost:        req.Cost,
		MinOrderQty: req.MinOrderQty,
		IsActive:    true,
	}
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	if err := s.recomputeForVariant(ctx, offer.VariantID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, offer.ID)
}

// Update 更新供货条款
func (s *OfferService) Update(ctx context.Context, id string, req *UpdateOfferRequest) (*entity.SupplyOffer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, fmt.Errorf("cost must be >= 0")
		}
		offer.Cost = *req.Cost
	}
	if req.MinOrderQty != nil {
		if *req.MinOrderQty <= 0 {
			return nil, fmt.Errorf("min_order_qty must be > 0")
		}
		offer.MinOrderQty = *req.MinOrderQty
	}
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, err
	}

	if err := s.recomputeForVariant(ctx, offer.VariantID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete 删除供货条款并重算所属商品的评分
func (s *OfferService) Delete(ctx context.Context, id string) error {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.recomputeForVariant(ctx, offer.VariantID)
}

func (s *OfferService) recomputeForVariant(ctx context.Context, variantID string) error {
	productID, err := s.repo.ProductIDOfVariant(ctx, variantID)
	if err != nil {
		return err
	}
	return s.scoring.RecomputeProductScores(ctx, productID)
}
