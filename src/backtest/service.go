package backtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// DefaultLookbackDays is how much history a backtest requests when the
// algorithm does not say otherwise: enough daily bars to warm up SMA50 and
// still leave a year of tradable range.
const DefaultLookbackDays = 365

// AlgorithmStore is the persistence surface the backtest service needs.
type AlgorithmStore interface {
	FetchAlgorithm(id uuid.UUID) (*models.Algorithm, error)
	SaveAlgorithmResult(id uuid.UUID, result *models.BacktestResult) error
}

// BarProvider supplies historical daily bars for a symbol.
type BarProvider interface {
	GetBarSeries(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error)
}

// Service runs backtests for stored algorithms and writes the result back
// onto the owning algorithm record.
type Service struct {
	store     AlgorithmStore
	provider  BarProvider
	simulator *Simulator
}

func NewService(store AlgorithmStore, provider BarProvider) *Service {
	return &Service{
		store:     store,
		provider:  provider,
		simulator: NewSimulator(),
	}
}

// RunBacktest loads the algorithm, fetches history for the symbol, runs the
// simulation and persists the result. On any failure the algorithm's prior
// state is left unchanged.
func (s *Service) RunBacktest(ctx context.Context, algorithmID uuid.UUID, symbol string) (*models.BacktestResult, error) {
	algorithm, err := s.store.FetchAlgorithm(algorithmID)
	if err != nil {
		return nil, fmt.Errorf("RunBacktest: failed to fetch algorithm %s: %w", algorithmID, err)
	}

	bars, err := s.provider.GetBarSeries(ctx, symbol, DefaultLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("RunBacktest: failed to fetch bars for %s: %w", symbol, err)
	}

	result, err := s.simulator.Run(ctx, symbol, algorithm.Strategy, bars, algorithm.StartingCapital)
	if err != nil {
		return nil, fmt.Errorf("RunBacktest: simulation failed for algorithm %s: %w", algorithmID, err)
	}

	if err := s.store.SaveAlgorithmResult(algorithmID, result); err != nil {
		return nil, fmt.Errorf("RunBacktest: failed to save result for algorithm %s: %w", algorithmID, err)
	}

	log.Infof("RunBacktest: algorithm %s on %s: %d trades, win rate %.2f%%, total return %.2f%%",
		algorithmID, symbol, result.Summary.TotalTrades, result.Summary.WinRate, result.Summary.TotalReturn)

	return result, nil
}
