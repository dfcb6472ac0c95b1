package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-wms/internal/inventory/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnitRepository 库存单件仓库
type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// FindAll 查询单件列表
func (r *UnitRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InventoryUnit, int64, error) {
	var items []entity.InventoryUnit
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InventoryUnit{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if variantID := filters["variant_id"]; variantID != "" {
		query = query.Where("variant_id = ?", variantID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找单件
func (r *UnitRepository) FindByID(ctx context.Context, id string) (*entity.InventoryUnit, error) {
	var unit entity.InventoryUnit
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByIDForUpdate 行锁读取单件，必须在事务内调用
func (r *UnitRepository) FindByIDForUpdate(tx *gorm.DB, id string) (*entity.InventoryUnit, error) {
	var unit entity.InventoryUnit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// NextSequentialID 变体下一个序号，必须在持有变体行锁的事务内调用
func (r *UnitRepository) NextSequentialID(tx *gorm.DB, variantID string) (int, error) {
	var maxSeq int
	err := tx.Model(&entity.InventoryUnit{}).
		Where("variant_id = ?", variantID).
		Select("COALESCE(MAX(sequential_id), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}

// Create 创建单件，保存前做时间一致性校验
func (r *UnitRepository) Create(ctx context.Context, unit *entity.InventoryUnit) error {
	if err := unit.ValidateDates(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(unit).Error
}

// Update 更新单件，保存前做时间一致性校验
func (r *UnitRepository) Update(ctx context.Context, unit *entity.InventoryUnit) error {
	if err := unit.ValidateDates(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(unit).Error
}

// CountByStatus 按状态统计
func (r *UnitRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.InventoryUnit{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}
