package repository

import (
	"context"

	"github.com/bitfantasy/nimo-wms/internal/inventory/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusLogRepository 状态变更日志仓库
type StatusLogRepository struct {
	db *gorm.DB
}

func NewStatusLogRepository(db *gorm.DB) *StatusLogRepository {
	return &StatusLogRepository{db: db}
}

// Create 创建日志
func (r *StatusLogRepository) Create(ctx context.Context, log *entity.StatusChangeLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()[:32]
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByUnit 查询单件的变更日志，按时间倒序展示
func (r *StatusLogRepository) FindByUnit(ctx context.Context, unitID string, page, pageSize int) ([]entity.StatusChangeLog, int64, error) {
	var items []entity.StatusChangeLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StatusChangeLog{}).
		Where("unit_id = ?", unitID)

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
