package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/service/availability"
	"github.com/gin-gonic/gin"
)

type AvailabilityBoard interface {
	Current(ctx context.Context, by availability.SortBy) (availability.Snapshot, error)
	SetRoute(ctx context.Context, origin, destination string) (availability.Snapshot, error)
}

type AvailabilityHandler struct {
	board AvailabilityBoard
}

func NewAvailabilityHandler(board AvailabilityBoard) *AvailabilityHandler {
	return &AvailabilityHandler{board: board}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.current)
	router.PUT("", h.setRoute)
}

type routeRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination"`
}

func (h *AvailabilityHandler) current(c *gin.Context) {
	by, ok := availability.ParseSortBy(c.Query("sort"))
	if !ok {
		writeError(c, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"sort": "must be one of [cost eta reliability]"}))
		return
	}
	snap, err := h.board.Current(c.Request.Context(), by)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *AvailabilityHandler) setRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	snap, err := h.board.SetRoute(c.Request.Context(), req.Origin, req.Destination)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
