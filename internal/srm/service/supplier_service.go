package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-wms/internal/srm/entity"
	"github.com/bitfantasy/nimo-wms/internal/srm/repository"
	"github.com/google/uuid"
)

// SupplierService 供应商服务。任何增删改之后立即触发评分重算，
// 显式调用，不走事件总线
type SupplierService struct {
	repo    *repository.SupplierRepository
	offers  *repository.OfferRepository
	scoring *ScoringService
}

func NewSupplierService(repo *repository.SupplierRepository, offers *repository.OfferRepository, scoring *ScoringService) *SupplierService {
	return &SupplierService{repo: repo, offers: offers, scoring: scoring}
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name             string   `json:"name" binding:"required"`
	ShortName        string   `json:"short_name"`
	CreditDays       int      `json:"credit_days" binding:"gte=0"`
	DeliveryCost     float64  `json:"delivery_cost" binding:"gte=0"`
	ReliabilityScore *float64 `json:"reliability_score"`
	Country          string   `json:"country"`
	PaymentTerms     string   `json:"payment_terms"`
	Notes            string   `json:"notes"`
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name             *string  `json:"name"`
	ShortName        *string  `json:"short_name"`
	CreditDays       *int     `json:"credit_days"`
	DeliveryCost     *float64 `json:"delivery_cost"`
	ReliabilityScore *float64 `json:"reliability_score"`
	OverallScore     *float64 `json:"overall_score"`
	Country          *string  `json:"country"`
	PaymentTerms     *string  `json:"payment_terms"`
	Notes            *string  `json:"notes"`
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{
		ID:           uuid.New().String()[:32],
		Code:         code,
		Name:         req.Name,
		ShortName:    req.ShortName,
		CreditDays:   req.CreditDays,
		DeliveryCost: req.DeliveryCost,
		Country:      req.Country,
		PaymentTerms: req.PaymentTerms,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	supplier.ReliabilityScore = 1
	if req.ReliabilityScore != nil {
		if err := validateScoreRange(*req.ReliabilityScore); err != nil {
			return nil, err
		}
		supplier.ReliabilityScore = *req.ReliabilityScore
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	if err := s.scoring.RecomputeSupplierScores(ctx); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, supplier.ID)
}

// Update 更新供应商。账期/配送成本变化会影响全体供应商的派生分，
// 同时该供应商覆盖的每个商品都要重算供货排名
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ShortName != nil {
		supplier.ShortName = *req.ShortName
	}
	if req.CreditDays != nil {
		if *req.CreditDays < 0 {
			return nil, fmt.Errorf("credit_days must be >= 0")
		}
		supplier.CreditDays = *req.CreditDays
	}
	if req.DeliveryCost != nil {
		if *req.DeliveryCost < 0 {
			return nil, fmt.Errorf("delivery_cost must be >= 0")
		}
		supplier.DeliveryCost = *req.DeliveryCost
	}
	if req.ReliabilityScore != nil {
		if err := validateScoreRange(*req.ReliabilityScore); err != nil {
			return nil, err
		}
		supplier.ReliabilityScore = *req.ReliabilityScore
	}
	if req.OverallScore != nil {
		supplier.OverallScore = req.OverallScore
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	if err := s.scoring.RecomputeSupplierScores(ctx); err != nil {
		return nil, err
	}

	productIDs, err := s.offers.FindProductIDsBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, productID := range productIDs {
		if err := s.scoring.RecomputeProductScores(ctx, productID); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, id)
}

// Delete 删除供应商并重算剩余供应商的派生分
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	productIDs, err := s.offers.FindProductIDsBySupplier(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.scoring.RecomputeSupplierScores(ctx); err != nil {
		return err
	}
	for _, productID := range productIDs {
		if err := s.scoring.RecomputeProductScores(ctx, productID); err != nil {
			return err
		}
	}
	return nil
}

func validateScoreRange(v float64) error {
	if v < 1 || v > 5 {
		return fmt.Errorf("score must be between 1 and 5")
	}
	return nil
}
