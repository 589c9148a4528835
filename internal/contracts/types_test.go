package contracts

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 6)
	assert.Equal(t, CategoryQuality, cats[0], "canonical order starts with quality")

	for _, c := range cats {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("sentiment").Valid())
}

func TestSignal_IsActionable(t *testing.T) {
	tests := []struct {
		name string
		typ  SignalType
		want bool
	}{
		{"buy", SignalBuy, true},
		{"sell", SignalSell, true},
		{"none", SignalNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Signal{Type: tt.typ}
			assert.Equal(t, tt.want, s.IsActionable())
		})
	}
}

func TestSymbolComputeError(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	err := NewSymbolComputeError("indicators", "AAPL", date, ErrMissingData)

	assert.True(t, errors.Is(err, ErrMissingData), "wrapped cause must survive errors.Is")
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), "2026-08-28")
	assert.Contains(t, err.Error(), "indicators")
}
