package api

import (
	"net/http"

	"github.com/Domenick1991/cargoquote/internal/service/quotation"
	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	service quotation.QuotationUseCase
}

func NewQuotationHandler(service quotation.QuotationUseCase) *QuotationHandler {
	return &QuotationHandler{service: service}
}

func (h *QuotationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.listValid)
	router.GET("/:id", h.get)
	router.PUT("/:id/margin", h.setMargin)
	router.PUT("/:id/validity", h.setValidity)
	router.POST("/:id/send", h.send)
	router.POST("/:id/unlock", h.unlock)
}

type marginRequest struct {
	ProfitMarginPercent *float64 `json:"profit_margin_percent" binding:"required"`
}

type validityRequest struct {
	ValidityDays *int `json:"validity_days" binding:"required"`
}

type unlockRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *QuotationHandler) listValid(c *gin.Context) {
	list, err := h.service.ListValid(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *QuotationHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *QuotationHandler) setMargin(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req marginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	view, err := h.service.SetMargin(c.Request.Context(), id, *req.ProfitMarginPercent)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *QuotationHandler) setValidity(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req validityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	view, err := h.service.SetValidity(c.Request.Context(), id, *req.ValidityDays)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *QuotationHandler) send(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.service.MarkSent(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *QuotationHandler) unlock(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	view, err := h.service.Unlock(c.Request.Context(), id, req.Confirmed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
