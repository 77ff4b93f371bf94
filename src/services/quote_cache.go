package services

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// Compile-time interface check.
var _ QuoteProvider = (*CachedQuoteProvider)(nil)

// CachedQuoteProvider wraps a QuoteProvider with a TTL cache so that many
// orders on the same symbol within one polling window share a single upstream
// call. The cache is an injected object with its own lifecycle, not package
// state.
type CachedQuoteProvider struct {
	upstream QuoteProvider
	quotes   *gocache.Cache
	bars     *gocache.Cache
}

func NewCachedQuoteProvider(upstream QuoteProvider, ttl time.Duration) *CachedQuoteProvider {
	return &CachedQuoteProvider{
		upstream: upstream,
		quotes:   gocache.New(ttl, 2*ttl),
		bars:     gocache.New(ttl, 2*ttl),
	}
}

func (p *CachedQuoteProvider) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if cached, found := p.quotes.Get(symbol); found {
		return cached.(*Quote), nil
	}

	quote, err := p.upstream.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	p.quotes.Set(symbol, quote, gocache.DefaultExpiration)
	return quote, nil
}

func (p *CachedQuoteProvider) GetBarSeries(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	key := fmt.Sprintf("%s:%d", symbol, lookbackDays)

	if cached, found := p.bars.Get(key); found {
		return cached.([]models.Bar), nil
	}

	bars, err := p.upstream.GetBarSeries(ctx, symbol, lookbackDays)
	if err != nil {
		return nil, err
	}

	p.bars.Set(key, bars, gocache.DefaultExpiration)
	return bars, nil
}

// Clear drops all cached entries.
func (p *CachedQuoteProvider) Clear() {
	p.quotes.Flush()
	p.bars.Flush()
}
