package domain

import "time"

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
)

// Sealed reports whether the quotation has left draft.
func (s QuotationStatus) Sealed() bool {
	return s == QuotationStatusSent || s == QuotationStatusAccepted
}

type Quotation struct {
	ID                  int64           `json:"id"`
	OrderID             int64           `json:"order_id"`
	OrderNumber         string          `json:"order_number"`
	TruckingCost        float64         `json:"trucking_cost"`
	AirFreightCost      float64         `json:"air_freight_cost"`
	TotalInternalCost   float64         `json:"total_internal_cost"`
	ProfitMarginPercent float64         `json:"profit_margin_percent"`
	MarkupAmount        float64         `json:"markup_amount"`
	FinalQuotePrice     float64         `json:"final_quote_price"`
	ValidityDays        int             `json:"validity_days"`
	Status              QuotationStatus `json:"status"`
	Terms               string          `json:"terms,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// QuotationPatch carries the partial fields of a quotation update.
// MarkupAmount and FinalQuotePrice are only ever set together with ProfitMarginPercent.
type QuotationPatch struct {
	ProfitMarginPercent *float64
	MarkupAmount        *float64
	FinalQuotePrice     *float64
	ValidityDays        *int
	Status              *QuotationStatus
}
