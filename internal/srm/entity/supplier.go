package entity

import "time"

// Supplier 供应商
type Supplier struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	Code      string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name      string `json:"name" gorm:"size:255;not null"`
	ShortName string `json:"short_name" gorm:"size:50"`

	// 账期与物流条件，信用/配送评分的输入
	CreditDays   int     `json:"credit_days" gorm:"default:0"`
	DeliveryCost float64 `json:"delivery_cost" gorm:"type:decimal(10,2);default:0"`

	// 可靠性评分人工维护(1-5)；信用分与配送成本分由全局重算派生；
	// 综合评分外部设置，本系统不定义合成公式
	ReliabilityScore  float64  `json:"reliability_score" gorm:"type:decimal(5,2);default:1"`
	CreditScore       float64  `json:"credit_score" gorm:"type:decimal(5,2);default:1"`
	CostDeliveryScore float64  `json:"cost_delivery_score" gorm:"type:decimal(5,2);default:1"`
	OverallScore      *float64 `json:"overall_score" gorm:"type:decimal(5,2)"`

	Country      string `json:"country" gorm:"size:50"`
	PaymentTerms string `json:"payment_terms" gorm:"size:100"`
	Notes        string `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Offers []SupplyOffer `json:"offers,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string {
	return "srm_suppliers"
}
