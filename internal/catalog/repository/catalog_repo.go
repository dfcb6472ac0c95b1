package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-wms/internal/catalog/entity"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// CatalogRepository 商品目录仓库
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindProducts 查询商品列表
func (r *CatalogRepository) FindProducts(ctx context.Context, page, pageSize int, search string) ([]entity.Product, int64, error) {
	var items []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindProductByID 根据ID查找商品
func (r *CatalogRepository) FindProductByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// CreateProduct 创建商品
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindVariantByID 根据ID查找变体
func (r *CatalogRepository) FindVariantByID(ctx context.Context, id string) (*entity.ProductVariant, error) {
	var variant entity.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Brand").
		Where("id = ?", id).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindVariantByBarcode 根据条码查找变体
func (r *CatalogRepository) FindVariantByBarcode(ctx context.Context, barcode string) (*entity.ProductVariant, error) {
	var variant entity.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("barcode = ?", barcode).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindVariantsByProduct 查询商品的全部变体
func (r *CatalogRepository) FindVariantsByProduct(ctx context.Context, productID string) ([]entity.ProductVariant, error) {
	var variants []entity.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&variants).Error
	return variants, err
}

// CreateVariant 创建变体
func (r *CatalogRepository) CreateVariant(ctx context.Context, variant *entity.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// CreateBrand 创建品牌
func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *entity.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

// FindBrands 查询品牌列表
func (r *CatalogRepository) FindBrands(ctx context.Context) ([]entity.Brand, error) {
	var brands []entity.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	return brands, err
}
