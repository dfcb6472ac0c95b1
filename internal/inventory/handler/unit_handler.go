package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bitfantasy/nimo-wms/internal/inventory/entity"
	"github.com/bitfantasy/nimo-wms/internal/inventory/repository"
	"github.com/bitfantasy/nimo-wms/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// UnitHandler 库存单件处理器
type UnitHandler struct {
	svc *service.LifecycleService
}

func NewUnitHandler(svc *service.LifecycleService) *UnitHandler {
	return &UnitHandler{svc: svc}
}

// ListUnits 单件列表
// GET /api/v1/inventory/units?status=xxx&variant_id=xxx&supplier_id=xxx&page=1&page_size=20
func (h *UnitHandler) ListUnits(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":      c.Query("status"),
		"variant_id":  c.Query("variant_id"),
		"supplier_id": c.Query("supplier_id"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取单件列表失败: "+err.Error())
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

// GetUnit 单件详情（含派生字段）
// GET /api/v1/inventory/units/:id
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id := c.Param("id")
	view, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "单件不存在")
		return
	}
	Success(c, view)
}

// CreateUnit 创建单件
// POST /api/v1/inventory/units
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req service.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	actorID := GetUserID(c)
	unit, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVariant):
			BadRequest(c, "商品变体不存在")
		case errors.Is(err, repository.ErrConflict):
			Conflict(c, "并发创建冲突，请重试")
		default:
			InternalError(c, "创建单件失败: "+err.Error())
		}
		return
	}

	Created(c, unit)
}

// TransitionUnit 状态流转
// POST /api/v1/inventory/units/:id/transition
func (h *UnitHandler) TransitionUnit(c *gin.Context) {
	id := c.Param("id")
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	actorID := GetUserID(c)
	unit, err := h.svc.TransitionWithFields(c.Request.Context(), id, actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "单件不存在")
		case errors.Is(err, entity.ErrInvalidStatus):
			BadRequest(c, "无效的目标状态: "+req.Status)
		case errors.Is(err, entity.ErrIllegalTransition):
			BadRequest(c, "当前状态不允许流转到 "+req.Status)
		case errors.Is(err, entity.ErrDateSequence):
			BadRequest(c, "时间戳顺序不一致: "+err.Error())
		default:
			InternalError(c, "状态流转失败: "+err.Error())
		}
		return
	}

	Success(c, unit)
}

// GetHistory 状态轨迹
// GET /api/v1/inventory/units/:id/history
func (h *UnitHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	history, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "单件不存在")
		return
	}
	Success(c, gin.H{"items": history})
}

// ListLogs 状态变更日志
// GET /api/v1/inventory/units/:id/logs
func (h *UnitHandler) ListLogs(c *gin.Context) {
	id := c.Param("id")
	page, pageSize := GetPagination(c)

	items, total, err := h.svc.Logs(c.Request.Context(), id, page, pageSize)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "单件不存在")
			return
		}
		InternalError(c, "获取变更日志失败: "+err.Error())
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

// GetStats 状态分布统计
// GET /api/v1/inventory/units/stats
func (h *UnitHandler) GetStats(c *gin.Context) {
	counts, err := h.svc.CountByStatus(c.Request.Context())
	if err != nil {
		InternalError(c, "获取统计失败: "+err.Error())
		return
	}
	Success(c, gin.H{"by_status": counts})
}

// ExportUnits 导出库存台账
// GET /api/v1/inventory/units/export
func (h *UnitHandler) ExportUnits(c *gin.Context) {
	filters := map[string]string{
		"status":     c.Query("status"),
		"variant_id": c.Query("variant_id"),
	}

	f, err := h.svc.ExportUnits(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "导出失败: "+err.Error())
		return
	}

	filename := fmt.Sprintf("inventory_units_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
