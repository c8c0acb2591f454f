package currency

import (
	"sync"
	"testing"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_Format(t *testing.T) {
	sel := NewSelection(7.8)

	assert.Equal(t, USD, sel.Current())
	assert.Equal(t, "USD $1,234.50", sel.Format(1234.5))
	assert.Equal(t, "USD $5,635.00", sel.Format(5635))
	assert.Equal(t, "USD $0.00", sel.Format(0))

	assert.Equal(t, HKD, sel.Toggle())
	assert.Equal(t, "HKD $9,629.10", sel.Format(1234.5))
	assert.Equal(t, "HKD $43,953.00", sel.Format(5635))

	assert.Equal(t, USD, sel.Toggle())
}

func TestSelection_FormatWith(t *testing.T) {
	sel := NewSelection(7.8)

	assert.Equal(t, "USD $385", sel.FormatWith(385, Options{}))
	assert.Equal(t, "USD $1,235", sel.FormatWith(1234.5, Options{}))
	assert.Equal(t, "HKD $3,003", sel.FormatIn(HKD, 385, Options{}))
	assert.Equal(t, "USD $12.346", sel.FormatWith(12.3456, Options{MinFractionDigits: 3, MaxFractionDigits: 3}))
}

func TestSelection_DefaultRate(t *testing.T) {
	assert.Equal(t, DefaultHKDPerUSD, NewSelection(0).Rate())
}

func TestParseCode(t *testing.T) {
	code, err := ParseCode(" hkd ")
	require.NoError(t, err)
	assert.Equal(t, HKD, code)

	_, err = ParseCode("EUR")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestSelection_ConcurrentAccess(t *testing.T) {
	sel := NewSelection(7.8)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sel.Toggle()
		}()
		go func() {
			defer wg.Done()
			_ = sel.Format(100)
		}()
	}
	wg.Wait()
	assert.Equal(t, USD, sel.Current())
}
