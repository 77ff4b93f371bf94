package backtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

type fakeAlgorithmStore struct {
	algorithms map[uuid.UUID]*models.Algorithm
	saved      map[uuid.UUID]*models.BacktestResult
}

func newFakeAlgorithmStore() *fakeAlgorithmStore {
	return &fakeAlgorithmStore{
		algorithms: make(map[uuid.UUID]*models.Algorithm),
		saved:      make(map[uuid.UUID]*models.BacktestResult),
	}
}

func (s *fakeAlgorithmStore) FetchAlgorithm(id uuid.UUID) (*models.Algorithm, error) {
	algo, ok := s.algorithms[id]
	if !ok {
		return nil, models.ErrAlgorithmNotFound
	}
	return algo, nil
}

func (s *fakeAlgorithmStore) SaveAlgorithmResult(id uuid.UUID, result *models.BacktestResult) error {
	s.saved[id] = result
	return nil
}

type fakeBarProvider struct {
	bars []models.Bar
	err  error
}

func (p *fakeBarProvider) GetBarSeries(_ context.Context, _ string, _ int) ([]models.Bar, error) {
	return p.bars, p.err
}

func TestServiceRunBacktest(t *testing.T) {
	ctx := context.Background()

	newAlgorithm := func() *models.Algorithm {
		return &models.Algorithm{
			ID:              uuid.New(),
			UserID:          uuid.New(),
			Name:            "macd trend",
			Strategy:        macdStrategy(5, 15),
			StartingCapital: decimal.NewFromInt(10000),
		}
	}

	t.Run("runs and persists the result", func(t *testing.T) {
		store := newFakeAlgorithmStore()
		algo := newAlgorithm()
		store.algorithms[algo.ID] = algo

		provider := &fakeBarProvider{bars: barsFromCloses(declineThenRise(120))}

		result, err := NewService(store, provider).RunBacktest(ctx, algo.ID, "AAPL")
		require.NoError(t, err)

		require.NotNil(t, result)
		assert.Equal(t, "AAPL", result.Symbol)
		assert.Equal(t, result, store.saved[algo.ID])
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		store := newFakeAlgorithmStore()
		provider := &fakeBarProvider{bars: barsFromCloses(declineThenRise(120))}

		_, err := NewService(store, provider).RunBacktest(ctx, uuid.New(), "AAPL")
		assert.ErrorIs(t, err, models.ErrAlgorithmNotFound)
	})

	t.Run("provider failure leaves prior state unchanged", func(t *testing.T) {
		store := newFakeAlgorithmStore()
		algo := newAlgorithm()
		store.algorithms[algo.ID] = algo

		provider := &fakeBarProvider{err: fmt.Errorf("rate limited")}

		_, err := NewService(store, provider).RunBacktest(ctx, algo.ID, "AAPL")
		assert.Error(t, err)
		assert.Empty(t, store.saved)
	})

	t.Run("simulation failure leaves prior state unchanged", func(t *testing.T) {
		store := newFakeAlgorithmStore()
		algo := newAlgorithm()
		store.algorithms[algo.ID] = algo

		provider := &fakeBarProvider{bars: barsFromCloses(make([]float64, 10))}

		_, err := NewService(store, provider).RunBacktest(ctx, algo.ID, "AAPL")
		assert.ErrorIs(t, err, models.ErrNotEnoughBars)
		assert.Empty(t, store.saved)
	})
}
