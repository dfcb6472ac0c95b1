package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;size:32"`
	Name      string          `json:"name" gorm:"size:100;not null;index"`
	Unit      string          `json:"unit" gorm:"size:20;default:units"` // grams/kilograms/units/meters
	MinStock  int             `json:"min_stock" gorm:"default:0"`
	MaxStock  int             `json:"max_stock" gorm:"default:0"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	IsBulk    bool            `json:"is_bulk" gorm:"default:false"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "catalog_products"
}

// Brand 品牌
type Brand struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Brand) TableName() string {
	return "catalog_brands"
}

// ProductVariant 商品变体（品牌+条码维度的可售配置）
type ProductVariant struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ProductID string    `json:"product_id" gorm:"size:32;not null;index"`
	BrandID   *string   `json:"brand_id" gorm:"size:32"`
	Barcode   string    `json:"barcode" gorm:"size:50;uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Brand   *Brand   `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
}

func (ProductVariant) TableName() string {
	return "catalog_product_variants"
}
