package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/currency"
	"github.com/gin-gonic/gin"
)

// CurrencyHandler serves each operator's own display currency.
type CurrencyHandler struct {
	prefs *currency.Preferences
}

func NewCurrencyHandler(prefs *currency.Preferences) *CurrencyHandler {
	return &CurrencyHandler{prefs: prefs}
}

func (h *CurrencyHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.current)
	router.PUT("", h.set)
	router.POST("/toggle", h.toggle)
	router.GET("/format", h.format)
}

type currencyResponse struct {
	Currency  currency.Code `json:"currency"`
	HKDPerUSD float64       `json:"hkd_per_usd"`
}

type setCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

type formatResponse struct {
	Currency  currency.Code `json:"currency"`
	Amount    float64       `json:"amount"`
	Formatted string        `json:"formatted"`
}

func (h *CurrencyHandler) selection(c *gin.Context) (*currency.Selection, string, bool) {
	id := consumerID(c)
	sel, err := h.prefs.Selection(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperr.Wrap(apperr.CodeDependency, err, "load display currency"))
		return nil, "", false
	}
	return sel, id, true
}

func (h *CurrencyHandler) save(c *gin.Context, id string, sel *currency.Selection) {
	if err := h.prefs.Save(c.Request.Context(), id, sel); err != nil {
		writeError(c, apperr.Wrap(apperr.CodeDependency, err, "save display currency"))
		return
	}
	c.JSON(http.StatusOK, currencyResponse{Currency: sel.Current(), HKDPerUSD: sel.Rate()})
}

func (h *CurrencyHandler) current(c *gin.Context) {
	sel, _, ok := h.selection(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, currencyResponse{Currency: sel.Current(), HKDPerUSD: sel.Rate()})
}

func (h *CurrencyHandler) set(c *gin.Context) {
	var req setCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	code, err := currency.ParseCode(req.Currency)
	if err != nil {
		writeError(c, err)
		return
	}
	sel, id, ok := h.selection(c)
	if !ok {
		return
	}
	sel.Set(code)
	h.save(c, id, sel)
}

func (h *CurrencyHandler) toggle(c *gin.Context) {
	sel, id, ok := h.selection(c)
	if !ok {
		return
	}
	sel.Toggle()
	h.save(c, id, sel)
}

// format renders ?amount (USD) in ?currency, defaulting to the operator's selection.
func (h *CurrencyHandler) format(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		writeError(c, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"amount": "must be a number"}))
		return
	}
	var code currency.Code
	if raw := c.Query("currency"); raw != "" {
		if code, err = currency.ParseCode(raw); err != nil {
			writeError(c, err)
			return
		}
	}
	opts := currency.DefaultOptions()
	if raw := c.Query("min"); raw != "" {
		if opts.MinFractionDigits, err = strconv.Atoi(raw); err != nil || opts.MinFractionDigits < 0 || opts.MinFractionDigits > 6 {
			writeError(c, apperr.New(apperr.CodeValidation, "validation failed").
				WithDetails(map[string]string{"min": "must be between 0 and 6"}))
			return
		}
	}
	if raw := c.Query("max"); raw != "" {
		if opts.MaxFractionDigits, err = strconv.Atoi(raw); err != nil || opts.MaxFractionDigits < 0 || opts.MaxFractionDigits > 6 {
			writeError(c, apperr.New(apperr.CodeValidation, "validation failed").
				WithDetails(map[string]string{"max": "must be between 0 and 6"}))
			return
		}
	}
	sel, _, ok := h.selection(c)
	if !ok {
		return
	}
	if code == "" {
		code = sel.Current()
	}
	c.JSON(http.StatusOK, formatResponse{
		Currency:  code,
		Amount:    amount,
		Formatted: sel.FormatIn(code, amount, opts),
	})
}
