package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// Compile-time interface check.
var _ DatabaseService = (*MemoryDatabaseService)(nil)

// MemoryDatabaseService implements DatabaseService in memory. It mirrors the
// gorm implementation's compare-and-set semantics and is used by tests and
// local runs without a postgres instance.
type MemoryDatabaseService struct {
	mutex        sync.Mutex
	accounts     map[uuid.UUID]*models.Account
	orders       map[uuid.UUID]*models.PendingOrder
	transactions []*models.Transaction
	algorithms   map[uuid.UUID]*models.Algorithm
}

func NewMemoryDatabaseService() *MemoryDatabaseService {
	return &MemoryDatabaseService{
		accounts:   make(map[uuid.UUID]*models.Account),
		orders:     make(map[uuid.UUID]*models.PendingOrder),
		algorithms: make(map[uuid.UUID]*models.Algorithm),
	}
}

func (s *MemoryDatabaseService) CreateAccount(account *models.Account) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.accounts[account.UserID] = account.Clone()
	return nil
}

func (s *MemoryDatabaseService) FetchAccount(userID uuid.UUID) (*models.Account, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	account, ok := s.accounts[userID]
	if !ok {
		return nil, models.ErrAccountNotFound
	}

	return account.Clone(), nil
}

func (s *MemoryDatabaseService) SaveAccountWithTransaction(account *models.Account, txn *models.Transaction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.accounts[account.UserID] = account.Clone()
	s.transactions = append(s.transactions, txn)
	return nil
}

func (s *MemoryDatabaseService) FetchTransactions(userID uuid.UUID) ([]*models.Transaction, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var result []*models.Transaction
	for _, txn := range s.transactions {
		if txn.UserID == userID {
			result = append(result, txn)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}

func (s *MemoryDatabaseService) CreateOrder(order *models.PendingOrder) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	clone := *order
	s.orders[order.ID] = &clone
	return nil
}

func (s *MemoryDatabaseService) FetchOrder(id uuid.UUID) (*models.PendingOrder, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}

	clone := *order
	return &clone, nil
}

func (s *MemoryDatabaseService) FetchPendingOrders() ([]*models.PendingOrder, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var result []*models.PendingOrder
	for _, order := range s.orders {
		if order.Status == models.OrderStatusPending {
			clone := *order
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (s *MemoryDatabaseService) BulkExpireOrders(ids []uuid.UUID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, id := range ids {
		if order, ok := s.orders[id]; ok && order.Status == models.OrderStatusPending {
			order.Status = models.OrderStatusExpired
		}
	}

	return nil
}

func (s *MemoryDatabaseService) CancelOrder(id uuid.UUID) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return false, models.ErrOrderNotFound
	}

	if order.Status != models.OrderStatusPending {
		return false, nil
	}

	order.Status = models.OrderStatusCancelled
	return true, nil
}

func (s *MemoryDatabaseService) MarkOrderFailed(id uuid.UUID, reason string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return false, models.ErrOrderNotFound
	}

	if order.Status != models.OrderStatusPending {
		return false, nil
	}

	order.Status = models.OrderStatusFailed
	order.FailureReason = &reason
	return true, nil
}

func (s *MemoryDatabaseService) CommitExecution(orderID uuid.UUID, account *models.Account, txn *models.Transaction, executedPrice decimal.Decimal, executedAt time.Time) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return false, models.ErrOrderNotFound
	}

	if order.Status != models.OrderStatusPending {
		return false, nil
	}

	order.Status = models.OrderStatusExecuted
	order.ExecutedPrice = &executedPrice
	order.ExecutedAt = &executedAt

	s.accounts[account.UserID] = account.Clone()
	s.transactions = append(s.transactions, txn)

	return true, nil
}

func (s *MemoryDatabaseService) CreateAlgorithm(algorithm *models.Algorithm) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.algorithms[algorithm.ID] = algorithm
	return nil
}

func (s *MemoryDatabaseService) FetchAlgorithm(id uuid.UUID) (*models.Algorithm, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	algorithm, ok := s.algorithms[id]
	if !ok {
		return nil, models.ErrAlgorithmNotFound
	}

	return algorithm, nil
}

func (s *MemoryDatabaseService) SaveAlgorithmResult(id uuid.UUID, result *models.BacktestResult) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	algorithm, ok := s.algorithms[id]
	if !ok {
		return models.ErrAlgorithmNotFound
	}

	algorithm.LastResult = result
	return nil
}
