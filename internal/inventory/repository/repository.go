package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("concurrency conflict")
)

// Repositories 库存仓库集合
type Repositories struct {
	Unit      *UnitRepository
	StatusLog *StatusLogRepository
}

// NewRepositories 创建库存仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Unit:      NewUnitRepository(db),
		StatusLog: NewStatusLogRepository(db),
	}
}

// IsDuplicate 唯一约束冲突判定（按变体的序号唯一索引）
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}
