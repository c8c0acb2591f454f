package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/service/vendors"
	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	service vendors.VendorUseCase
}

func NewVendorHandler(service vendors.VendorUseCase) *VendorHandler {
	return &VendorHandler{service: service}
}

func (h *VendorHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/regions", h.regions)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
}

func (h *VendorHandler) list(c *gin.Context) {
	filter := vendors.Filter{
		Search: c.Query("search"),
		Region: c.Query("region"),
		Status: c.Query("status"),
	}
	if raw := c.Query("rating"); raw != "" && raw != vendors.StatusAll {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 1 || rating > 5 {
			writeError(c, apperr.New(apperr.CodeValidation, "validation failed").
				WithDetails(map[string]string{"rating": "must be between 1 and 5"}))
			return
		}
		filter.Rating = rating
	}
	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *VendorHandler) create(c *gin.Context) {
	var req vendors.VendorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	vendor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (h *VendorHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	vendor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req vendors.VendorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	vendor, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) regions(c *gin.Context) {
	regions, err := h.service.Regions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, regions)
}
