package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/service/flights"
	"github.com/Domenick1991/cargoquote/internal/service/orders"
	"github.com/Domenick1991/cargoquote/internal/service/quotation"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders  orders.OrderUseCase
	quotes  quotation.QuotationUseCase
	flights flights.FlightUseCase
}

func NewOrderHandler(orders orders.OrderUseCase, quotes quotation.QuotationUseCase, flights flights.FlightUseCase) *OrderHandler {
	return &OrderHandler{orders: orders, quotes: quotes, flights: flights}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/pending", h.pending)
	router.GET("/confirmed", h.confirmed)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.delete)
	router.GET("/:id/costs", h.costs)
	router.POST("/:id/quote", h.quote)
	router.GET("/:id/quotations", h.quotations)
	router.GET("/:id/matching-flights", h.matchingFlights)
	router.POST("/:id/assign", h.assign)
}

type assignRequest struct {
	FlightID int64 `json:"flight_id" binding:"required"`
}

func (h *OrderHandler) list(c *gin.Context) {
	list, err := h.orders.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) create(c *gin.Context) {
	var req orders.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) costs(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	costs, err := h.quotes.EstimateCosts(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, costs)
}

func (h *OrderHandler) quote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.quotes.GenerateQuoteForOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *OrderHandler) quotations(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.quotes.ListForOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) matchingFlights(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	window, err := parseDateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.flights.MatchingFlights(c.Request.Context(), id, window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) assign(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	result, err := h.flights.Assign(c.Request.Context(), id, req.FlightID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) pending(c *gin.Context) {
	list, err := h.flights.PendingOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) confirmed(c *gin.Context) {
	list, err := h.flights.ConfirmedOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// parseDateRange reads ?from and ?to as RFC 3339 timestamps or plain dates.
// A plain "to" date covers that whole day.
func parseDateRange(c *gin.Context) (domain.DateRange, error) {
	var r domain.DateRange
	from, to := c.Query("from"), c.Query("to")
	if from != "" {
		t, _, err := parseDate(from)
		if err != nil {
			return r, apperr.New(apperr.CodeValidation, "invalid date").WithDetails(map[string]string{"from": "must be YYYY-MM-DD or RFC 3339"})
		}
		r.From = t
	}
	if to != "" {
		t, dateOnly, err := parseDate(to)
		if err != nil {
			return r, apperr.New(apperr.CodeValidation, "invalid date").WithDetails(map[string]string{"to": "must be YYYY-MM-DD or RFC 3339"})
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.To = t
	}
	return r, nil
}

func parseDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	return t, false, err
}
