package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/service/costing"
	"github.com/Domenick1991/cargoquote/internal/service/flights"
	"github.com/Domenick1991/cargoquote/internal/service/orders"
	"github.com/Domenick1991/cargoquote/internal/service/quotation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderHandler() (*OrderHandler, *MockOrderUseCase, *MockQuotationUseCase, *MockFlightUseCase) {
	o, q, f := &MockOrderUseCase{}, &MockQuotationUseCase{}, &MockFlightUseCase{}
	return NewOrderHandler(o, q, f), o, q, f
}

func TestOrderHandler_create(t *testing.T) {
	handler, mockOrders, _, _ := newOrderHandler()
	c, w := newTestContext(http.MethodPost, "/orders",
		`{"origin_airport":"HKG","destination_airport":"LAX","distribution_centers":["Los Angeles DC"],"weight_kg":1200}`)

	input := orders.CreateOrderInput{
		OriginAirport:       "HKG",
		DestinationAirport:  "LAX",
		DistributionCenters: []string{"Los Angeles DC"},
		WeightKg:            1200,
	}
	created := &domain.Order{ID: 1, OrderNumber: "ORD-1", OriginAirport: "HKG", DestinationAirport: "LAX", Status: domain.OrderStatusDraft}
	mockOrders.On("Create", c.Request.Context(), input).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ORD-1", got.OrderNumber)
	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_create_MalformedBody(t *testing.T) {
	handler, mockOrders, _, _ := newOrderHandler()
	c, w := newTestContext(http.MethodPost, "/orders", `{"weight_kg":`)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperr.CodeValidation), decodeError(t, w).Code)
	mockOrders.AssertNotCalled(t, "Create")
}

func TestOrderHandler_delete(t *testing.T) {
	handler, mockOrders, _, _ := newOrderHandler()

	c, w := newTestContext(http.MethodDelete, "/orders/3", "")
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	mockOrders.On("Delete", c.Request.Context(), int64(3)).Return(nil).Once()
	handler.delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())

	c, w = newTestContext(http.MethodDelete, "/orders/4", "")
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	mockOrders.On("Delete", c.Request.Context(), int64(4)).
		Return(apperr.New(apperr.CodeStateConflict, "Cannot delete orders that have been quoted or completed")).Once()
	handler.delete(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	mockOrders.AssertExpectations(t)
}

func TestOrderHandler_costsAndQuote(t *testing.T) {
	handler, _, mockQuotes, _ := newOrderHandler()

	c, w := newTestContext(http.MethodGet, "/orders/5/costs", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	mockQuotes.On("EstimateCosts", c.Request.Context(), int64(5)).
		Return(&costing.Costs{Trucking: 100, AirlineOperating: 500, Total: 600}, nil)
	handler.costs(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trucking":100,"airline_operating":500,"total":600}`, w.Body.String())

	c, w = newTestContext(http.MethodPost, "/orders/5/quote", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	view := &quotation.View{Quotation: domain.Quotation{ID: 9, OrderID: 5, FinalQuotePrice: 690}}
	mockQuotes.On("GenerateQuoteForOrder", c.Request.Context(), int64(5)).Return(view, nil)
	handler.quote(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	mockQuotes.AssertExpectations(t)
}

func TestOrderHandler_quotations(t *testing.T) {
	handler, _, mockQuotes, _ := newOrderHandler()

	c, w := newTestContext(http.MethodGet, "/orders/5/quotations", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	mockQuotes.On("ListForOrder", c.Request.Context(), int64(5)).Return([]quotation.View{
		{Quotation: domain.Quotation{ID: 11, OrderID: 5}},
		{Quotation: domain.Quotation{ID: 9, OrderID: 5, Status: domain.QuotationStatusSent}, Locked: true},
	}, nil)
	handler.quotations(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got []quotation.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(11), got[0].ID)
	assert.True(t, got[1].Locked)

	c, w = newTestContext(http.MethodGet, "/orders/6/quotations", "")
	c.Params = gin.Params{{Key: "id", Value: "6"}}
	mockQuotes.On("ListForOrder", c.Request.Context(), int64(6)).Return(nil, apperr.Newf(apperr.CodeNotFound, "order %d not found", 6))
	handler.quotations(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_matchingFlights(t *testing.T) {
	handler, _, _, mockFlights := newOrderHandler()
	c, w := newTestContext(http.MethodGet, "/orders/2/matching-flights?from=2026-03-01&to=2026-03-02", "")
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	window := domain.DateRange{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 2, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
	}
	mockFlights.On("MatchingFlights", c.Request.Context(), int64(2), window).
		Return([]domain.Flight{{ID: 7, FlightNumber: "CX880"}}, nil)

	handler.matchingFlights(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockFlights.AssertExpectations(t)
}

func TestOrderHandler_matchingFlights_BadDate(t *testing.T) {
	handler, _, _, mockFlights := newOrderHandler()
	c, w := newTestContext(http.MethodGet, "/orders/2/matching-flights?from=yesterday", "")
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	handler.matchingFlights(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"from": "must be YYYY-MM-DD or RFC 3339"}, decodeError(t, w).Details)
	mockFlights.AssertNotCalled(t, "MatchingFlights")
}

func TestOrderHandler_assign(t *testing.T) {
	handler, _, _, mockFlights := newOrderHandler()
	c, w := newTestContext(http.MethodPost, "/orders/2/assign", `{"flight_id":7}`)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	result := &flights.Assignment{
		Order:  domain.Order{ID: 2, Status: domain.OrderStatusCompleted},
		Flight: domain.Flight{ID: 7, AvailableCapacityKg: 8800},
	}
	mockFlights.On("Assign", c.Request.Context(), int64(2), int64(7)).Return(result, nil)

	handler.assign(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockFlights.AssertExpectations(t)
}

func TestOrderHandler_assign_MissingFlight(t *testing.T) {
	handler, _, _, mockFlights := newOrderHandler()
	c, w := newTestContext(http.MethodPost, "/orders/2/assign", `{}`)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	handler.assign(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockFlights.AssertNotCalled(t, "Assign")
}

func TestOrderHandler_pendingAndConfirmed(t *testing.T) {
	handler, _, _, mockFlights := newOrderHandler()

	c, w := newTestContext(http.MethodGet, "/orders/pending", "")
	mockFlights.On("PendingOrders", c.Request.Context()).Return([]domain.Order{{ID: 1}}, nil)
	handler.pending(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/orders/confirmed", "")
	mockFlights.On("ConfirmedOrders", c.Request.Context()).Return([]flights.ConfirmedOrder{}, nil)
	handler.confirmed(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	mockFlights.AssertExpectations(t)
}

func TestParseDateRange_RFC3339(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/?from=2026-03-01T08:00:00Z&to=2026-03-01T20:00:00Z", "")

	r, err := parseDateRange(c)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC), r.To)
}
