package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// IsDuplicate 唯一约束冲突判定（变体+供应商的供货条款唯一索引）
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}

// Repositories SRM仓库集合
type Repositories struct {
	Supplier *SupplierRepository
	Offer    *OfferRepository
}

// NewRepositories 创建SRM仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier: NewSupplierRepository(db),
		Offer:    NewOfferRepository(db),
	}
}
