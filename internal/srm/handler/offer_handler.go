package handler

import (
	"errors"

	"github.com/bitfantasy/nimo-wms/internal/srm/repository"
	"github.com/bitfantasy/nimo-wms/internal/srm/service"
	"github.com/gin-gonic/gin"
)

// OfferHandler 供货条款处理器
type OfferHandler struct {
	svc     *service.OfferService
	scoring *service.ScoringService
}

func NewOfferHandler(svc *service.OfferService, scoring *service.ScoringService) *OfferHandler {
	return &OfferHandler{svc: svc, scoring: scoring}
}

// ListOffers 供货条款列表
// GET /api/v1/srm/offers?variant_id=xxx&supplier_id=xxx&page=1&page_size=20
func (h *OfferHandler) ListOffers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"variant_id":  c.Query("variant_id"),
		"supplier_id": c.Query("supplier_id"),
		"is_active":   c.Query("is_active"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取供货条款列表失败: "+err.Error())
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

// GetOffer 供货条款详情
// GET /api/v1/srm/offers/:id
func (h *OfferHandler) GetOffer(c *gin.Context) {
	id := c.Param("id")
	offer, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "供货条款不存在")
		return
	}
	Success(c, offer)
}

// CreateOffer 创建供货条款
// POST /api/v1/srm/offers
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	var req service.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	offer, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			BadRequest(c, "创建供货条款失败: "+err.Error())
			return
		}
		if repository.IsDuplicate(err) {
			Conflict(c, "该变体与供应商的供货条款已存在")
			return
		}
		InternalError(c, "创建供货条款失败: "+err.Error())
		return
	}

	Created(c, offer)
}

// UpdateOffer 更新供货条款
// PUT /api/v1/srm/offers/:id
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	offer, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供货条款不存在")
			return
		}
		InternalError(c, "更新供货条款失败: "+err.Error())
		return
	}

	Success(c, offer)
}

// DeleteOffer 删除供货条款
// DELETE /api/v1/srm/offers/:id
func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "供货条款不存在")
			return
		}
		InternalError(c, "删除供货条款失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// GetProductRanking 商品供货排名
// GET /api/v1/srm/products/:id/ranking
func (h *OfferHandler) GetProductRanking(c *gin.Context) {
	productID := c.Param("id")
	ranked, err := h.scoring.RankProduct(c.Request.Context(), productID)
	if err != nil {
		InternalError(c, "获取供货排名失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": ranked})
}

// RecomputeProduct 手动触发某商品的评分重算
// POST /api/v1/srm/products/:id/recompute
func (h *OfferHandler) RecomputeProduct(c *gin.Context) {
	productID := c.Param("id")
	if err := h.scoring.RecomputeProductScores(c.Request.Context(), productID); err != nil {
		InternalError(c, "评分重算失败: "+err.Error())
		return
	}
	Success(c, nil)
}
