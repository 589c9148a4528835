package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// PriceRepository reads daily OHLCV history written by the upstream loader.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetHistory returns up to maxBars bars for symbol ending at date, in
// ascending date order.
func (r *PriceRepository) GetHistory(ctx context.Context, symbol string, date time.Time, maxBars int) ([]contracts.PriceBar, error) {
	query := `
		SELECT symbol, trade_date, open_price, high_price, low_price, close_price, volume
		FROM data.daily_prices
		WHERE symbol = $1 AND trade_date <= $2
		ORDER BY trade_date DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, symbol, date, maxBars)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []contracts.PriceBar
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returns newest first; callers need ascending order.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// ListSymbols returns every symbol with a bar on the date, sorted.
func (r *PriceRepository) ListSymbols(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT symbol
		FROM data.daily_prices
		WHERE trade_date = $1
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
