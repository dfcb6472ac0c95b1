package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// 质检结果
const (
	QualityResultPassed = "passed"
	QualityResultFailed = "failed"
)

// InventoryUnit 库存单件。一个物理可追踪的商品变体实例，
// 状态只能通过 Transition 操作变更，不允许直接改字段
type InventoryUnit struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	VariantID    string `json:"variant_id" gorm:"size:32;not null;uniqueIndex:idx_unit_variant_seq,priority:1"`
	SequentialID int    `json:"sequential_id" gorm:"not null;uniqueIndex:idx_unit_variant_seq,priority:2"`
	SupplierID   *string `json:"supplier_id" gorm:"size:32"`

	PurchasePrice   decimal.Decimal  `json:"purchase_price" gorm:"type:decimal(10,2);not null"`
	SalePrice       *decimal.Decimal `json:"sale_price" gorm:"type:decimal(10,2)"`
	DiscountPercent decimal.Decimal  `json:"discount_percent" gorm:"type:decimal(5,2);default:0"`
	TaxPercent      decimal.Decimal  `json:"tax_percent" gorm:"type:decimal(5,2);default:0"`

	Status string `json:"status" gorm:"size:20;not null;default:ordered;index"`

	// 每个状态首次到达的时间戳，重访不覆盖
	DateOrdered      *time.Time `json:"date_ordered"`
	DateReceived     *time.Time `json:"date_received"`
	DateQualityCheck *time.Time `json:"date_quality_check"`
	DateReadyForSale *time.Time `json:"date_ready_for_sale"`
	DateReserved     *time.Time `json:"date_reserved"`
	DateSold         *time.Time `json:"date_sold"`
	DateShipped      *time.Time `json:"date_shipped"`
	DateDelivered    *time.Time `json:"date_delivered"`
	DateReturned     *time.Time `json:"date_returned"`
	DateDiscarded    *time.Time `json:"date_discarded"`

	Location       string  `json:"location" gorm:"size:100"`
	Carrier        string  `json:"carrier" gorm:"size:100"`
	TrackingNumber string  `json:"tracking_number" gorm:"size:100"`
	Notes          string  `json:"notes" gorm:"type:text"`
	QualityResult  *string `json:"quality_result" gorm:"size:20"` // passed/failed

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryUnit) TableName() string {
	return "inventory_units"
}

// StatusChangeLog 状态变更日志，只增不改
type StatusChangeLog struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	UnitID     string    `json:"unit_id" gorm:"size:32;not null;index"`
	FromStatus string    `json:"from_status" gorm:"size:20"`
	ToStatus   string    `json:"to_status" gorm:"size:20;not null"`
	Note       string    `json:"note" gorm:"type:text"`
	OperatorID string    `json:"operator_id" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (StatusChangeLog) TableName() string {
	return "inventory_status_logs"
}

// statusTimestamp 状态对应的时间戳槽位。显式映射，不走反射
func (u *InventoryUnit) statusTimestamp(status string) **time.Time {
	switch status {
	case StatusOrdered:
		return &u.DateOrdered
	case StatusReceived:
		return &u.DateReceived
	case StatusQualityCheck:
		return &u.DateQualityCheck
	case StatusReadyForSale:
		return &u.DateReadyForSale
	case StatusReserved:
		return &u.DateReserved
	case StatusSold:
		return &u.DateSold
	case StatusShipped:
		return &u.DateShipped
	case StatusDelivered:
		return &u.DateDelivered
	case StatusReturned:
		return &u.DateReturned
	case StatusDiscarded:
		return &u.DateDiscarded
	}
	return nil
}

// StatusTime 某状态首次到达时间，未到达返回nil
func (u *InventoryUnit) StatusTime(status string) *time.Time {
	slot := u.statusTimestamp(status)
	if slot == nil {
		return nil
	}
	return *slot
}

// StampStatus 记录状态首达时间。已有时间戳时不覆盖，返回是否写入
func (u *InventoryUnit) StampStatus(status string, t time.Time) bool {
	slot := u.statusTimestamp(status)
	if slot == nil || *slot != nil {
		return false
	}
	ts := t
	*slot = &ts
	return true
}

// ValidateDates 保存前的时间一致性校验
func (u *InventoryUnit) ValidateDates() error {
	if u.DateOrdered != nil && u.DateReceived != nil && u.DateReceived.Before(*u.DateOrdered) {
		return fmt.Errorf("%w: date_received before date_ordered", ErrDateSequence)
	}
	if u.DateReadyForSale != nil && u.DateSold != nil && u.DateSold.Before(*u.DateReadyForSale) {
		return fmt.Errorf("%w: date_sold before date_ready_for_sale", ErrDateSequence)
	}
	return nil
}

// TimeInStatus 当前状态已持续时长，时间戳缺失返回nil
func (u *InventoryUnit) TimeInStatus(now time.Time) *time.Duration {
	ts := u.StatusTime(u.Status)
	if ts == nil {
		return nil
	}
	d := now.Sub(*ts)
	return &d
}

// StatusHistoryEntry 状态轨迹条目
type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusHistory 按首达时间升序重建访问轨迹
func (u *InventoryUnit) StatusHistory() []StatusHistoryEntry {
	var history []StatusHistoryEntry
	for _, status := range AllStatuses {
		if ts := u.StatusTime(status); ts != nil {
			history = append(history, StatusHistoryEntry{
				Status:    status,
				Label:     StatusLabel(status),
				Timestamp: *ts,
			})
		}
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})
	return history
}

// CurrentLocation 按状态推导当前位置
func (u *InventoryUnit) CurrentLocation() string {
	switch u.Status {
	case StatusOrdered, StatusReceived, StatusQualityCheck:
		return "Warehouse - Incoming"
	case StatusReadyForSale:
		if u.Location != "" {
			return u.Location
		}
		return "Warehouse - Storage"
	case StatusReserved, StatusSold:
		return "Warehouse - Picking Area"
	case StatusShipped, StatusDelivered:
		carrier := u.Carrier
		if carrier == "" {
			carrier = "Unknown Carrier"
		}
		return "In Transit (" + carrier + ")"
	}
	return "Unknown"
}

// Profit 预期利润。售价未设置时为0，精确小数运算，两位舍入
func (u *InventoryUnit) Profit() decimal.Decimal {
	if u.SalePrice == nil {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	subtotal := u.SalePrice.Mul(hundred.Sub(u.DiscountPercent)).Div(hundred)
	taxed := subtotal.Mul(hundred.Add(u.TaxPercent)).Div(hundred)
	return taxed.Sub(u.PurchasePrice).Round(2)
}

// IsAvailableForSale 是否可售
func (u *InventoryUnit) IsAvailableForSale() bool {
	return u.Status == StatusReadyForSale
}

// IsInStock 是否在库
func (u *InventoryUnit) IsInStock() bool {
	return u.Status == StatusReadyForSale || u.Status == StatusReserved
}

// IsShipped 是否已发出
func (u *InventoryUnit) IsShipped() bool {
	return u.Status == StatusShipped || u.Status == StatusDelivered
}
