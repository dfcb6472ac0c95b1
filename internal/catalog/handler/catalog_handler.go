package handler

import (
	"github.com/bitfantasy/nimo-wms/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// CatalogHandler 商品目录处理器
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ListProducts 商品列表
// GET /api/v1/catalog/products?search=xxx&page=1&page_size=20
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, pageSize := GetPagination(c)
	search := c.Query("search")

	items, total, err := h.svc.ListProducts(c.Request.Context(), page, pageSize, search)
	if err != nil {
		InternalError(c, "获取商品列表失败: "+err.Error())
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

// GetProduct 商品详情
// GET /api/v1/catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "商品不存在")
		return
	}
	Success(c, product)
}

// CreateProduct 创建商品
// POST /api/v1/catalog/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		InternalError(c, "创建商品失败: "+err.Error())
		return
	}

	Created(c, product)
}

// ListVariants 商品变体列表
// GET /api/v1/catalog/products/:id/variants
func (h *CatalogHandler) ListVariants(c *gin.Context) {
	productID := c.Param("id")
	variants, err := h.svc.ListVariants(c.Request.Context(), productID)
	if err != nil {
		InternalError(c, "获取变体列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": variants})
}

// CreateVariant 创建变体
// POST /api/v1/catalog/variants
func (h *CatalogHandler) CreateVariant(c *gin.Context) {
	var req service.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	variant, err := h.svc.CreateVariant(c.Request.Context(), &req)
	if err != nil {
		InternalError(c, "创建变体失败: "+err.Error())
		return
	}

	Created(c, variant)
}

// GetVariantByBarcode 扫码查询变体
// GET /api/v1/catalog/variants/barcode/:barcode
func (h *CatalogHandler) GetVariantByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	variant, err := h.svc.GetVariantByBarcode(c.Request.Context(), barcode)
	if err != nil {
		NotFound(c, "条码未登记")
		return
	}
	Success(c, variant)
}

// ListBrands 品牌列表
// GET /api/v1/catalog/brands
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.svc.ListBrands(c.Request.Context())
	if err != nil {
		InternalError(c, "获取品牌列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": brands})
}

// CreateBrand 创建品牌
// POST /api/v1/catalog/brands
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req service.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	brand, err := h.svc.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		InternalError(c, "创建品牌失败: "+err.Error())
		return
	}

	Created(c, brand)
}
