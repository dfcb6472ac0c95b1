package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-wms/internal/srm/entity"
	"gorm.io/gorm"
)

// OfferRepository 供货条款仓库
type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// FindAll 查询供货条款列表
func (r *OfferRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SupplyOffer, int64, error) {
	var items []entity.SupplyOffer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupplyOffer{})

	if variantID := filters["variant_id"]; variantID != "" {
		query = query.Where("variant_id = ?", variantID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if active := filters["is_active"]; active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Score").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找供货条款
func (r *OfferRepository) FindByID(ctx context.Context, id string) (*entity.SupplyOffer, error) {
	var offer entity.SupplyOffer
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Variant").
		Preload("Score").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &offer, nil
}

// FindByProduct 查询某商品全部供货条款（跨该商品所有变体）
func (r *OfferRepository) FindByProduct(ctx context.Context, productID string) ([]entity.SupplyOffer, error) {
	var offers []entity.SupplyOffer
	err := r.db.WithContext(ctx).
		Joins("JOIN catalog_product_variants v ON v.id = srm_supply_offers.variant_id").
		Where("v.product_id = ?", productID).
		Preload("Supplier").
		Preload("Score").
		Find(&offers).Error
	return offers, err
}

// FindProductIDsBySupplier 供应商当前供货覆盖的商品ID集合
func (r *OfferRepository) FindProductIDsBySupplier(ctx context.Context, supplierID string) ([]string, error) {
	var productIDs []string
	err := r.db.WithContext(ctx).
		Model(&entity.SupplyOffer{}).
		Joins("JOIN catalog_product_variants v ON v.id = srm_supply_offers.variant_id").
		Where("srm_supply_offers.supplier_id = ?", supplierID).
		Distinct("v.product_id").
		Pluck("v.product_id", &productIDs).Error
	return productIDs, err
}

// ProductIDOfVariant 变体所属商品ID
func (r *OfferRepository) ProductIDOfVariant(ctx context.Context, variantID string) (string, error) {
	var productID string
	err := r.db.WithContext(ctx).
		Table("catalog_product_variants").
		Where("id = ?", variantID).
		Pluck("product_id", &productID).Error
	if err != nil {
		return "", err
	}
	if productID == "" {
		return "", ErrNotFound
	}
	return productID, nil
}

// Create 创建供货条款
func (r *OfferRepository) Create(ctx context.Context, offer *entity.SupplyOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// Update 更新供货条款
func (r *OfferRepository) Update(ctx context.Context, offer *entity.SupplyOffer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

// Delete 删除供货条款及其评分
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", id).Delete(&entity.SupplyOfferScore{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.SupplyOffer{}).Error
	})
}
