package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/response"
)

type OfferHandler struct {
	svc service.OfferService
}

func NewOfferHandler(svc service.OfferService) *OfferHandler { return &OfferHandler{svc: svc} }

func (h *OfferHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/offers")
	{
		g.GET("", h.list)
		g.GET("/:sku", h.getBySKU)
		g.POST("", h.create)
		g.PUT("", h.updateFull)
		g.PATCH("", h.updatePartial)
		g.DELETE("", h.delete)
	}
}

func (h *OfferHandler) list(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	filters := model.OfferFilters{
		SKU:     c.Query("sku"),
		OfferID: c.Query("offer_id"),
	}
	items, meta, err := h.svc.List(c.Request.Context(), filters, params)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteList(c, items, meta)
}

func (h *OfferHandler) getBySKU(c *gin.Context) {
	o, err := h.svc.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, o)
}

func (h *OfferHandler) create(c *gin.Context) {
	var req []model.Offer
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	created, warnings, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMutation(c, http.StatusCreated, created, warnings)
}

func (h *OfferHandler) updateFull(c *gin.Context) {
	var req []model.Offer
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

func (h *OfferHandler) updatePartial(c *gin.Context) {
	var req []model.Offer
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

func (h *OfferHandler) delete(c *gin.Context) {
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
	response.WriteMutation(c, http.StatusOK, gin.H{"deleted_count": deleted}, warnings)
}
