package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	catrepo "github.com/bitfantasy/nimo-wms/internal/catalog/repository"
	"github.com/bitfantasy/nimo-wms/internal/inventory/entity"
	"github.com/bitfantasy/nimo-wms/internal/inventory/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catentity "github.com/bitfantasy/nimo-wms/internal/catalog/entity"
)

var (
	ErrInvalidVariant = errors.New("invalid variant")
)

// LifecycleService 库存单件生命周期服务
type LifecycleService struct {
	units   *repository.UnitRepository
	logs    *repository.StatusLogRepository
	catalog *catrepo.CatalogRepository
	db      *gorm.DB
}

func NewLifecycleService(units *repository.UnitRepository, logs *repository.StatusLogRepository, catalog *catrepo.CatalogRepository, db *gorm.DB) *LifecycleService {
	return &LifecycleService{
		units:   units,
		logs:    logs,
		catalog: catalog,
		db:      db,
	}
}

// CreateUnitRequest 创建单件请求
type CreateUnitRequest struct {
	VariantID       string           `json:"variant_id" binding:"required"`
	SupplierID      *string          `json:"supplier_id"`
	PurchasePrice   decimal.Decimal  `json:"purchase_price"`
	SalePrice       *decimal.Decimal `json:"sale_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
	Location        string           `json:"location"`
	Notes           string           `json:"notes"`
}

// TransitionRequest 状态流转请求
type TransitionRequest struct {
	Status         string `json:"status" binding:"required"`
	Note           string `json:"note"`
	Location       string `json:"location"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
	QualityResult  string `json:"quality_result"`
}

// Create 创建单件。序号分配与创建在同一事务内完成，
// 变体行锁串行化同一变体的并发创建，唯一索引兜底，冲突整体重试一次
func (s *LifecycleService) Create(ctx context.Context, actorID string, req *CreateUnitRequest) (*entity.InventoryUnit, error) {
	if req.PurchasePrice.IsNegative() {
		return nil, fmt.Errorf("purchase_price must be >= 0")
	}

	variant, err := s.catalog.FindVariantByID(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, catrepo.ErrNotFound) {
			return nil, ErrInvalidVariant
		}
		return nil, err
	}

	unit, err := s.createOnce(ctx, actorID, variant.ID, req)
	if repository.IsDuplicate(err) {
		// 输掉了序号分配的并发竞争，重试一次
		unit, err = s.createOnce(ctx, actorID, variant.ID, req)
		if repository.IsDuplicate(err) {
			return nil, repository.ErrConflict
		}
	}
	return unit, err
}

func (s *LifecycleService) createOnce(ctx context.Context, actorID, variantID string, req *CreateUnitRequest) (*entity.InventoryUnit, error) {
	now := time.Now()
	var unit *entity.InventoryUnit

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁变体行，串行化同变体的序号分配
		var locked catentity.ProductVariant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", variantID).
			First(&locked).Error; err != nil {
			return err
		}

		seq, err := s.units.NextSequentialID(tx, variantID)
		if err != nil {
			return err
		}

		unit = &entity.InventoryUnit{
			ID:            uuid.New().String()[:32],
			VariantID:     variantID,
			SequentialID:  seq,
			SupplierID:    req.SupplierID,
			PurchasePrice: req.PurchasePrice,
			SalePrice:     req.SalePrice,
			Status:        entity.StatusOrdered,
			Location:      req.Location,
			Notes:         req.Notes,
		}
		if req.DiscountPercent != nil {
			unit.DiscountPercent = *req.DiscountPercent
		}
		if req.TaxPercent != nil {
			unit.TaxPercent = *req.TaxPercent
		}
		unit.StampStatus(entity.StatusOrdered, now)

		if err := unit.ValidateDates(); err != nil {
			return err
		}
		if err := tx.Create(unit).Error; err != nil {
			return err
		}

		log := &entity.StatusChangeLog{
			ID:         uuid.New().String()[:32],
			UnitID:     unit.ID,
			FromStatus: "",
			ToStatus:   entity.StatusOrdered,
			OperatorID: actorID,
		}
		return tx.Create(log).Error
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// Transition 状态流转。单件行锁下校验边、写首达时间戳、
// 更新状态并追加日志，单件更新与日志追加同事务提交
func (s *LifecycleService) Transition(ctx context.Context, unitID, target, actorID, note string) (*entity.InventoryUnit, error) {
	var unit *entity.InventoryUnit
	now := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.units.FindByIDForUpdate(tx, unitID)
		if err != nil {
			return err
		}

		if err := entity.ValidateTransition(locked.Status, target); err != nil {
			return err
		}

		fromStatus := locked.Status
		locked.Status = target
		locked.StampStatus(target, now)

		if err := locked.ValidateDates(); err != nil {
			return err
		}
		if err := tx.Save(locked).Error; err != nil {
			return err
		}

		log := &entity.StatusChangeLog{
			ID:         uuid.New().String()[:32],
			UnitID:     locked.ID,
			FromStatus: fromStatus,
			ToStatus:   target,
			Note:       note,
			OperatorID: actorID,
			CreatedAt:  now,
		}
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		unit = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// TransitionWithFields 状态流转并带上操作字段（位置、承运商、质检结果等）
func (s *LifecycleService) TransitionWithFields(ctx context.Context, unitID, actorID string, req *TransitionRequest) (*entity.InventoryUnit, error) {
	var unit *entity.InventoryUnit
	now := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.units.FindByIDForUpdate(tx, unitID)
		if err != nil {
			return err
		}

		if err := entity.ValidateTransition(locked.Status, req.Status); err != nil {
			return err
		}

		fromStatus := locked.Status
		locked.Status = req.Status
		locked.StampStatus(req.Status, now)

		if req.Location != "" {
			locked.Location = req.Location
		}
		if req.Carrier != "" {
			locked.Carrier = req.Carrier
		}
		if req.TrackingNumber != "" {
			locked.TrackingNumber = req.TrackingNumber
		}
		if req.QualityResult != "" {
			result := req.QualityResult
			locked.QualityResult = &result
		}

		if err := locked.ValidateDates(); err != nil {
			return err
		}
		if err := tx.Save(locked).Error; err != nil {
			return err
		}

		log := &entity.StatusChangeLog{
			ID:         uuid.New().String()[:32],
			UnitID:     locked.ID,
			FromStatus: fromStatus,
			ToStatus:   req.Status,
			Note:       req.Note,
			OperatorID: actorID,
			CreatedAt:  now,
		}
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		unit = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// List 单件列表
func (s *LifecycleService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InventoryUnit, int64, error) {
	return s.units.FindAll(ctx, page, pageSize, filters)
}

// UnitView 单件详情视图，含派生字段
type UnitView struct {
	*entity.InventoryUnit
	StatusLabel       string                      `json:"status_label"`
	CurrentLocation   string                      `json:"current_location"`
	TimeInStatusSecs  *float64                    `json:"time_in_status_secs"`
	Profit            decimal.Decimal             `json:"profit"`
	AvailableForSale  bool                        `json:"available_for_sale"`
	InStock           bool                        `json:"in_stock"`
	Shipped           bool                        `json:"shipped"`
	History           []entity.StatusHistoryEntry `json:"history"`
}

// Get 单件详情
func (s *LifecycleService) Get(ctx context.Context, id string) (*UnitView, error) {
	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildUnitView(unit, time.Now()), nil
}

func buildUnitView(unit *entity.InventoryUnit, now time.Time) *UnitView {
	view := &UnitView{
		InventoryUnit:    unit,
		StatusLabel:      entity.StatusLabel(unit.Status),
		CurrentLocation:  unit.CurrentLocation(),
		Profit:           unit.Profit(),
		AvailableForSale: unit.IsAvailableForSale(),
		InStock:          unit.IsInStock(),
		Shipped:          unit.IsShipped(),
		History:          unit.StatusHistory(),
	}
	if d := unit.TimeInStatus(now); d != nil {
		secs := d.Seconds()
		view.TimeInStatusSecs = &secs
	}
	return view
}

// History 状态轨迹，按首达时间升序
func (s *LifecycleService) History(ctx context.Context, id string) ([]entity.StatusHistoryEntry, error) {
	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return unit.StatusHistory(), nil
}

// Logs 状态变更日志，按时间倒序
func (s *LifecycleService) Logs(ctx context.Context, unitID string, page, pageSize int) ([]entity.StatusChangeLog, int64, error) {
	if _, err := s.units.FindByID(ctx, unitID); err != nil {
		return nil, 0, err
	}
	return s.logs.FindByUnit(ctx, unitID, page, pageSize)
}

// CountByStatus 状态分布统计
func (s *LifecycleService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.units.CountByStatus(ctx)
}
