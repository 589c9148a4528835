package contracts

import (
	"errors"
	"fmt"
	"time"
)

// Error taxonomy for the scoring pipeline. Handlers are expected to branch on
// these with errors.Is rather than on message text.
var (
	// ErrMissingData means a metric or bar series is absent or too short.
	// Handled by omission: no row, or a nil field. Never by substitution.
	ErrMissingData = errors.New("insufficient or missing data")

	// ErrNumericDegenerate means a computation produced NaN, Inf, or required
	// a division by zero that has no defined substitute for that indicator.
	// Degenerate values are never persisted.
	ErrNumericDegenerate = errors.New("numeric degenerate value")

	// ErrUniverseSync means a cross-sectional percentile pass was invoked
	// before the full universe's raw data for the date was loaded. Fatal for
	// that category/date: partial percentiles are worse than no percentiles.
	ErrUniverseSync = errors.New("universe snapshot incomplete")
)

// SymbolComputeError wraps any failure while processing a single symbol.
// The batch logs it and skips the symbol; it never aborts the run.
type SymbolComputeError struct {
	Symbol    string
	Date      time.Time
	Component string
	Err       error
}

func (e *SymbolComputeError) Error() string {
	return fmt.Sprintf("%s: symbol %s date %s: %v",
		e.Component, e.Symbol, e.Date.Format("2006-01-02"), e.Err)
}

func (e *SymbolComputeError) Unwrap() error {
	return e.Err
}

// NewSymbolComputeError wraps err with symbol, date, and component context.
func NewSymbolComputeError(component, symbol string, date time.Time, err error) *SymbolComputeError {
	return &SymbolComputeError{
		Symbol:    symbol,
		Date:      date,
		Component: component,
		Err:       err,
	}
}
