package api

import (
	"net/http"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/service/dashboard"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service dashboard.DashboardUseCase
}

func NewDashboardHandler(service dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/dashboard", h.summary)
	router.GET("/airports", h.airports)
}

type airportResponse struct {
	Code                string   `json:"code"`
	DistributionCenters []string `json:"distribution_centers"`
}

func (h *DashboardHandler) summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) airports(c *gin.Context) {
	codes := domain.Airports()
	out := make([]airportResponse, 0, len(codes))
	for _, code := range codes {
		out = append(out, airportResponse{Code: code, DistributionCenters: domain.DistributionCenters(code)})
	}
	c.JSON(http.StatusOK, out)
}
