package currency

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Code string

const (
	USD Code = "USD"
	HKD Code = "HKD"
)

const DefaultHKDPerUSD = 7.8

func ParseCode(value string) (Code, error) {
	switch Code(strings.ToUpper(strings.TrimSpace(value))) {
	case USD:
		return USD, nil
	case HKD:
		return HKD, nil
	default:
		return "", apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"currency": "must be one of [USD HKD]"})
	}
}

type Options struct {
	MinFractionDigits int `json:"min_fraction_digits"`
	MaxFractionDigits int `json:"max_fraction_digits"`
}

func DefaultOptions() Options {
	return Options{MinFractionDigits: 2, MaxFractionDigits: 2}
}

// Selection is one consumer's display currency. Amounts are always stored in
// USD; conversion only happens when formatting.
type Selection struct {
	mu        sync.RWMutex
	code      Code
	hkdPerUSD decimal.Decimal
}

func NewSelection(hkdPerUSD float64) *Selection {
	if hkdPerUSD <= 0 {
		hkdPerUSD = DefaultHKDPerUSD
	}
	return &Selection{
		code:      USD,
		hkdPerUSD: decimal.NewFromFloat(hkdPerUSD),
	}
}

func (s *Selection) Current() Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.code
}

func (s *Selection) Rate() float64 {
	return s.hkdPerUSD.InexactFloat64()
}

func (s *Selection) Set(code Code) {
	s.mu.Lock()
	s.code = code
	s.mu.Unlock()
}

// Toggle flips between USD and HKD and returns the new selection.
func (s *Selection) Toggle() Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == HKD {
		s.code = USD
	} else {
		s.code = HKD
	}
	return s.code
}

// Format renders amountUSD in the selected currency with two fraction digits.
func (s *Selection) Format(amountUSD float64) string {
	return s.FormatWith(amountUSD, DefaultOptions())
}

func (s *Selection) FormatWith(amountUSD float64, opts Options) string {
	return s.FormatIn(s.Current(), amountUSD, opts)
}

// FormatIn renders amountUSD as code, e.g. "USD $1,234.50" or "HKD $9,629.10".
func (s *Selection) FormatIn(code Code, amountUSD float64, opts Options) string {
	if opts.MaxFractionDigits < opts.MinFractionDigits {
		opts.MaxFractionDigits = opts.MinFractionDigits
	}
	amount := decimal.NewFromFloat(amountUSD)
	if code == HKD {
		amount = amount.Mul(s.hkdPerUSD)
	}
	rounded := amount.Round(int32(opts.MaxFractionDigits)).InexactFloat64()
	formatted := message.NewPrinter(language.English).Sprint(number.Decimal(rounded,
		number.MinFractionDigits(opts.MinFractionDigits),
		number.MaxFractionDigits(opts.MaxFractionDigits),
	))
	return fmt.Sprintf("%s $%s", code, formatted)
}
