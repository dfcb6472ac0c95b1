package entity

import (
	"time"

	"github.com/shopspring/decimal"

	catentity "github.com/bitfantasy/nimo-wms/internal/catalog/entity"
)

// SupplyOffer 供货条款。同一(变体,供应商)最多一条
type SupplyOffer struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	VariantID  string `json:"variant_id" gorm:"size:32;not null;uniqueIndex:idx_offer_variant_supplier,priority:1"`
	SupplierID string `json:"supplier_id" gorm:"size:32;not null;uniqueIndex:idx_offer_variant_supplier,priority:2"`

	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(10,2);not null"`
	MinOrderQty int             `json:"min_order_qty" gorm:"not null;default:1"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Supplier *Supplier                 `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Variant  *catentity.ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
	Score    *SupplyOfferScore         `json:"score,omitempty" gorm:"foreignKey:OfferID"`
}

func (SupplyOffer) TableName() string {
	return "srm_supply_offers"
}

// SupplyOfferScore 供货评分。完全派生，只由重算写入。
// 非活跃报价固定为(0,0,0)，活跃报价在[1,5]区间
type SupplyOfferScore struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	OfferID       string    `json:"offer_id" gorm:"size:32;not null;uniqueIndex"`
	CostScore     float64   `json:"cost_score" gorm:"type:decimal(5,2);default:0"`
	QuantityScore float64   `json:"quantity_score" gorm:"type:decimal(5,2);default:0"`
	OverallScore  float64   `json:"overall_score" gorm:"type:decimal(5,2);default:0"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (SupplyOfferScore) TableName() string {
	return "srm_supply_offer_scores"
}
