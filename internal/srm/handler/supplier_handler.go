package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bitfantasy/nimo-wms/internal/srm/repository"
	"github.com/bitfantasy/nimo-wms/internal/srm/service"
	"github.com/gin-gonic/gin"
)

// SupplierHandler 供应商处理器
type SupplierHandler struct {
	svc    *service.SupplierService
	export *service.ExportService
}

func NewSupplierHandler(svc *service.SupplierService, export *service.ExportService) *SupplierHandler {
	return &SupplierHandler{svc: svc, export: export}
}

// ListSuppliers 供应商列表
// GET /api/v1/srm/suppliers?search=xxx&country=xxx&page=1&page_size=20
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":  c.Query("search"),
		"country": c.Query("country"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取供应商列表失败: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// GetSupplier 供应商详情
// GET /api/v1/srm/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id := c.Param("id")
	supplier, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "供应商不存在")
		return
	}
	Success(c, supplier)
}

// CreateSupplier 创建供应商
// POST /api/v1/srm/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID := GetUserID(c)
	supplier, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		InternalError(c, "创建供应商失败: "+err.Error())
		return
	}

	Created(c, supplier)
}

// UpdateSupplier 更新供应商
// PUT /api/v1/srm/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		InternalError(c, "更新供应商失败: "+err.Error())
		return
	}

	Success(c, supplier)
}

// DeleteSupplier 删除供应商
// DELETE /api/v1/srm/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供应商不存在")
			return
		}
		InternalError(c, "删除供应商失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// ExportSuppliers 导出供应商评分表
// GET /api/v1/srm/suppliers/export
func (h *SupplierHandler) ExportSuppliers(c *gin.Context) {
	f, err := h.export.ExportSuppliers(c.Request.Context())
	if err != nil {
		InternalError(c, "导出失败: "+err.Error())
		return
	}

	filename := fmt.Sprintf("suppliers_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
