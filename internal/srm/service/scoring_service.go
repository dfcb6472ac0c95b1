package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/bitfantasy/nimo-wms/internal/srm/entity"
	"github.com/bitfantasy/nimo-wms/internal/srm/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	rankingCachePrefix = "srm:ranking:"
	rankingCacheTTL    = 10 * time.Minute
)

// ScoringService 供应商评分引擎。评分是派生缓存，
// 重算入口是唯一写入方，外部不允许直接改评分字段
type ScoringService struct {
	offers    *repository.OfferRepository
	suppliers *repository.SupplierRepository
	db        *gorm.DB
	rdb       *redis.Client
}

func NewScoringService(offers *repository.OfferRepository, suppliers *repository.SupplierRepository, db *gorm.DB, rdb *redis.Client) *ScoringService {
	return &ScoringService{
		offers:    offers,
		suppliers: suppliers,
		db:        db,
		rdb:       rdb,
	}
}

// RecomputeProductScores 全量重算某商品全部供货条款的评分。
// 始终整体替换，保证相对排名一致；替换在单事务内完成
func (s *ScoringService) RecomputeProductScores(ctx context.Context, productID string) error {
	offers, err := s.offers.FindByProduct(ctx, productID)
	if err != nil {
		return err
	}

	results := computeOfferScores(offers)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 没有任何报价: 清除残留评分
		if results == nil {
			offerIDs := tx.Table("srm_supply_offers o").
				Select("o.id").
				Joins("JOIN catalog_product_variants v ON v.id = o.variant_id").
				Where("v.product_id = ?", productID)
			return tx.Where("offer_id IN (?)", offerIDs).
				Delete(&entity.SupplyOfferScore{}).Error
		}

		now := time.Now()
		for _, res := range results {
			score := entity.SupplyOfferScore{
				ID:            uuid.New().String()[:32],
				OfferID:       res.OfferID,
				CostScore:     res.CostScore,
				QuantityScore: res.QuantityScore,
				OverallScore:  res.OverallScore,
				UpdatedAt:     now,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "offer_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"cost_score", "quantity_score", "overall_score", "updated_at"}),
			}).Create(&score).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateRanking(ctx, productID)
	return nil
}

// RecomputeSupplierScores 全局重算全部供应商的信用分与配送成本分
func (s *ScoringService) RecomputeSupplierScores(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var suppliers []entity.Supplier
		if err := tx.Find(&suppliers).Error; err != nil {
			return err
		}

		computeSupplierScores(suppliers)

		for i := range suppliers {
			sup := &suppliers[i]
			if err := tx.Model(&entity.Supplier{}).
				Where("id = ?", sup.ID).
				Updates(map[string]interface{}{
					"credit_score":        sup.CreditScore,
					"cost_delivery_score": sup.CostDeliveryScore,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RankedOffer 排名视图
type RankedOffer struct {
	OfferID       string  `json:"offer_id"`
	SupplierID    string  `json:"supplier_id"`
	SupplierName  string  `json:"supplier_name"`
	VariantID     string  `json:"variant_id"`
	Cost          string  `json:"cost"`
	MinOrderQty   int     `json:"min_order_qty"`
	IsActive      bool    `json:"is_active"`
	CostScore     float64 `json:"cost_score"`
	QuantityScore float64 `json:"quantity_score"`
	OverallScore  float64 `json:"overall_score"`
}

// RankProduct 某商品的供应商排名，综合评分降序。读走Redis缓存，
// 重算后失效
func (s *ScoringService) RankProduct(ctx context.Context, productID string) ([]RankedOffer, error) {
	cacheKey := rankingCachePrefix + productID

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var ranked []RankedOffer
			if json.Unmarshal([]byte(cached), &ranked) == nil {
				return ranked, nil
			}
		}
	}

	offers, err := s.offers.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedOffer, 0, len(offers))
	for _, o := range offers {
		ro := RankedOffer{
			OfferID:     o.ID,
			SupplierID:  o.SupplierID,
			VariantID:   o.VariantID,
			Cost:        o.Cost.StringFixed(2),
			MinOrderQty: o.MinOrderQty,
			IsActive:    o.IsActive,
		}
		if o.Supplier != nil {
			ro.SupplierName = o.Supplier.Name
		}
		if o.Score != nil {
			ro.CostScore = o.Score.CostScore
			ro.QuantityScore = o.Score.QuantityScore
			ro.OverallScore = o.Score.OverallScore
		}
		ranked = append(ranked, ro)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})

	if s.rdb != nil {
		if data, err := json.Marshal(ranked); err == nil {
			s.rdb.Set(ctx, cacheKey, data, rankingCacheTTL)
		}
	}

	return ranked, nil
}

func (s *ScoringService) invalidateRanking(ctx context.Context, productID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, rankingCachePrefix+productID)
	}
}
