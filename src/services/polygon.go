package services

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	polygonmodels "github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// Compile-time interface check.
var _ QuoteProvider = (*PolygonQuoteProvider)(nil)

// PolygonQuoteProvider serves quotes and bar series from the Polygon
// aggregates API. Any API failure surfaces as ErrQuoteUnavailable so the
// scheduler treats it as transient.
type PolygonQuoteProvider struct {
	client *polygon.Client
}

func NewPolygonQuoteProvider(apiKey string) *PolygonQuoteProvider {
	return &PolygonQuoteProvider{
		client: polygon.New(apiKey),
	}
}

func (p *PolygonQuoteProvider) listDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	params := polygonmodels.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   polygonmodels.Day,
		From:       polygonmodels.Millis(from),
		To:         polygonmodels.Millis(to),
	}.WithOrder(polygonmodels.Asc).WithAdjusted(true)

	log.Tracef("fetching polygon daily bars for %s from %s to %s", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))

	iter := p.client.ListAggs(ctx, params)

	var bars []models.Bar
	for iter.Next() {
		item := iter.Item()
		bars = append(bars, models.Bar{
			Date:   time.Time(item.Timestamp),
			Open:   item.Open,
			High:   item.High,
			Low:    item.Low,
			Close:  item.Close,
			Volume: int64(item.Volume),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: polygon aggs for %s: %v", models.ErrQuoteUnavailable, symbol, err)
	}

	return bars, nil
}

// GetQuote returns the most recent daily close for the symbol.
func (p *PolygonQuoteProvider) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	now := time.Now().UTC()

	// A week's window covers weekends and market holidays.
	bars, err := p.listDailyBars(ctx, symbol, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no recent bars for %s", models.ErrQuoteUnavailable, symbol)
	}

	last := bars[len(bars)-1]

	return &Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(last.Close),
		Timestamp: last.Date,
	}, nil
}

func (p *PolygonQuoteProvider) GetBarSeries(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	now := time.Now().UTC()

	bars, err := p.listDailyBars(ctx, symbol, now.AddDate(0, 0, -lookbackDays), now)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", models.ErrQuoteUnavailable, symbol)
	}

	return bars, nil
}
