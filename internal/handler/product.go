package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/response"
)

type ProductHandler struct {
	svc service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler { return &ProductHandler{svc: svc} }

func (h *ProductHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/products")
	{
		g.GET("", h.list)
		g.GET("/:sku", h.getBySKU)
		g.POST("", h.create)
		g.PUT("", h.updateFull)
		g.PATCH("", h.updatePartial)
		g.DELETE("", h.delete)
	}
}

// parsePageQuery reads a pagination query param; absence maps to zero, which
// the service normalizes. A non-numeric value is a client error.
func parsePageQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func listParams(c *gin.Context) (service.ListParams, bool) {
	page, ok := parsePageQuery(c, "page")
	if !ok {
		return service.ListParams{}, false
	}
	size, ok := parsePageQuery(c, "limit")
	if !ok {
		return service.ListParams{}, false
	}
	return service.ListParams{Page: page, PageSize: size}, true
}

func (h *ProductHandler) list(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	filters := model.ProductFilters{
		SKU:          c.Query("sku"),
		CategoryCode: c.Query("category_code"),
	}
	items, meta, err := h.svc.List(c.Request.Context(), filters, params)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteList(c, items, meta)
}

func (h *ProductHandler) getBySKU(c *gin.Context) {
	p, err := h.svc.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, p)
}

func (h *ProductHandler) create(c *gin.Context) {
	var req []model.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // не расшифровываем внутренние детали парсинга
		return
	}
	created, warnings, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMutation(c, http.StatusCreated, created, warnings)
}

func (h *ProductHandler) updateFull(c *gin.Context) {
	var req []model.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	updated, warnings, err := h.svc.UpdateFull(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMutation(c, http.StatusOK, updated, warnings)
}

func (h *ProductHandler) updatePartial(c *gin.Context) {
	var req []model.ProductPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	updated, warnings, err := h.svc.UpdatePartial(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMutation(c, http.StatusOK, updated, warnings)
}

type deleteEntry struct {
	SKU string `json:"sku"`
}

func skusFromBody(c *gin.Context) ([]string, bool) {
	var req []deleteEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, false
	}
	skus := make([]string, 0, len(req))
	for _, e := range req {
		skus = append(skus, e.SKU)
	}
	return skus, true
}

func (h *ProductHandler) delete(c *gin.Context) {
	skus, ok := skusFromBody(c)
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	deleted, warnings, err := h.svc.Delete(c.Request.Context(), skus)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMutation(c, http.StatusOK, gin.H{"skus_deleted": deleted}, warnings)
}
