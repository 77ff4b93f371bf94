package execution

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/services"
)

const (
	DefaultPollInterval = 30 * time.Second
	DefaultQuoteTimeout = 10 * time.Second
)

// Scheduler polls pending orders on a fixed interval and fires the ones whose
// trigger condition is met by the current quote. Ticks never overlap: if a
// sweep is still running when the ticker fires, that tick is skipped.
type Scheduler struct {
	wg       *sync.WaitGroup
	db       services.DatabaseService
	provider services.QuoteProvider
	executor *Executor

	interval     time.Duration
	quoteTimeout time.Duration

	running atomic.Bool
	nowFn   func() time.Time
}

func NewScheduler(wg *sync.WaitGroup, db services.DatabaseService, provider services.QuoteProvider, executor *Executor, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Scheduler{
		wg:           wg,
		db:           db,
		provider:     provider,
		executor:     executor,
		interval:     interval,
		quoteTimeout: DefaultQuoteTimeout,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the polling loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Infof("Scheduler: polling pending orders every %v", s.interval)

		for {
			select {
			case <-ctx.Done():
				log.Info("Scheduler: stopping")
				return
			case <-ticker.C:
				if !s.running.CompareAndSwap(false, true) {
					log.Warn("Scheduler: previous sweep still running, skipping tick")
					continue
				}

				s.Tick(ctx)
				s.running.Store(false)
			}
		}
	}()
}

// Tick runs one sweep: expire stale orders, fetch one quote per distinct
// symbol, then fill triggered orders grouped per user so each user's ledger
// sees a serial stream of fills.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.nowFn()

	orders, err := s.db.FetchPendingOrders()
	if err != nil {
		log.Errorf("Tick: failed to fetch pending orders: %v", err)
		return
	}

	if len(orders) == 0 {
		return
	}

	var expired []uuid.UUID
	var live []*models.PendingOrder
	for _, order := range orders {
		if order.IsExpired(now) {
			expired = append(expired, order.ID)
		} else {
			live = append(live, order)
		}
	}

	if len(expired) > 0 {
		if err := s.db.BulkExpireOrders(expired); err != nil {
			log.Errorf("Tick: failed to expire orders: %v", err)
		} else {
			log.Infof("Tick: expired %d orders", len(expired))
		}
	}

	if len(live) == 0 {
		return
	}

	quotes := s.fetchQuotes(ctx, live)

	byUser := make(map[uuid.UUID][]*models.PendingOrder)
	for _, order := range live {
		byUser[order.UserID] = append(byUser[order.UserID], order)
	}

	var wg sync.WaitGroup
	for _, userOrders := range byUser {
		wg.Add(1)

		go func(userOrders []*models.PendingOrder) {
			defer wg.Done()
			s.fillTriggered(userOrders, quotes, now)
		}(userOrders)
	}

	wg.Wait()
}

// fetchQuotes resolves each distinct symbol at most once per tick. Symbols
// whose quote fetch fails are left out; their orders wait for the next tick.
func (s *Scheduler) fetchQuotes(ctx context.Context, orders []*models.PendingOrder) map[string]decimal.Decimal {
	quotes := make(map[string]decimal.Decimal)

	for _, order := range orders {
		if _, ok := quotes[order.Symbol]; ok {
			continue
		}

		quoteCtx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
		quote, err := s.provider.GetQuote(quoteCtx, order.Symbol)
		cancel()

		if err != nil {
			log.Warnf("fetchQuotes: failed to fetch quote for %s, deferring its orders: %v", order.Symbol, err)
			continue
		}

		quotes[order.Symbol] = quote.Price
	}

	return quotes
}

func (s *Scheduler) fillTriggered(orders []*models.PendingOrder, quotes map[string]decimal.Decimal, now time.Time) {
	for _, order := range orders {
		price, ok := quotes[order.Symbol]
		if !ok {
			continue
		}

		if !order.ShouldTrigger(price) {
			continue
		}

		outcome := s.executor.FillOrder(order, price, now)
		switch outcome.Kind {
		case models.OutcomeOK:
		case models.OutcomeTransient:
			log.Warnf("fillTriggered: order %s deferred to next tick: %v", order.ID, outcome.Err)
		case models.OutcomeTerminal:
			log.Errorf("fillTriggered: order %s failed: %v", order.ID, outcome.Err)
		}
	}
}
