package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// Compile-time interface check.
var _ DatabaseService = (*GormDatabaseService)(nil)

// GormDatabaseService implements DatabaseService on postgres. Order status
// writes use a status-guarded UPDATE so each order leaves PENDING exactly
// once regardless of which writer gets there first.
type GormDatabaseService struct {
	db *gorm.DB
}

func NewGormDatabaseService(dsn string) (*GormDatabaseService, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("NewGormDatabaseService: failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&AccountRecord{}, &HoldingRecord{}, &OrderRecord{}, &TransactionRecord{}, &AlgorithmRecord{}); err != nil {
		return nil, fmt.Errorf("NewGormDatabaseService: failed to migrate: %w", err)
	}

	return &GormDatabaseService{db: db}, nil
}

func (s *GormDatabaseService) CreateAccount(account *models.Account) error {
	record := &AccountRecord{
		UserID:        account.UserID,
		Email:         account.Email,
		WalletBalance: account.WalletBalance,
	}

	for _, holding := range account.Holdings {
		record.Holdings = append(record.Holdings, HoldingRecord{
			Symbol:      holding.Symbol,
			Quantity:    holding.Quantity,
			AvgBuyPrice: holding.AvgBuyPrice,
		})
	}

	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("CreateAccount: %w", err)
	}

	return nil
}

func (s *GormDatabaseService) FetchAccount(userID uuid.UUID) (*models.Account, error) {
	var record AccountRecord
	if err := s.db.Preload("Holdings").Where("user_id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("FetchAccount: %w", err)
	}

	return record.toModel(), nil
}

// saveAccountTx rewrites the account's wallet and holdings inside the given
// transaction.
func saveAccountTx(tx *gorm.DB, account *models.Account) error {
	var record AccountRecord
	if err := tx.Where("user_id = ?", account.UserID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrAccountNotFound
		}
		return err
	}

	if err := tx.Model(&record).Update("wallet_balance", account.WalletBalance).Error; err != nil {
		return err
	}

	if err := tx.Where("account_record_id = ?", record.ID).Delete(&HoldingRecord{}).Error; err != nil {
		return err
	}

	for _, holding := range account.Holdings {
		h := HoldingRecord{
			AccountRecordID: record.ID,
			Symbol:          holding.Symbol,
			Quantity:        holding.Quantity,
			AvgBuyPrice:     holding.AvgBuyPrice,
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *GormDatabaseService) SaveAccountWithTransaction(account *models.Account, txn *models.Transaction) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := saveAccountTx(tx, account); err != nil {
			return err
		}

		return tx.Create(newTransactionRecord(txn)).Error
	})

	if err != nil {
		return fmt.Errorf("SaveAccountWithTransaction: %w", err)
	}

	return nil
}

func (s *GormDatabaseService) FetchTransactions(userID uuid.UUID) ([]*models.Transaction, error) {
	var records []TransactionRecord
	if err := s.db.Where("user_id = ?", userID).Order("timestamp asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("FetchTransactions: %w", err)
	}

	result := make([]*models.Transaction, 0, len(records))
	for i := range records {
		result = append(result, records[i].toModel())
	}

	return result, nil
}

func (s *GormDatabaseService) CreateOrder(order *models.PendingOrder) error {
	if err := s.db.Create(newOrderRecord(order)).Error; err != nil {
		return fmt.Errorf("CreateOrder: %w", err)
	}

	return nil
}

func (s *GormDatabaseService) FetchOrder(id uuid.UUID) (*models.PendingOrder, error) {
	var record OrderRecord
	if err := s.db.Where("order_id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("FetchOrder: %w", err)
	}

	return record.toModel(), nil
}

func (s *GormDatabaseService) FetchPendingOrders() ([]*models.PendingOrder, error) {
	var records []OrderRecord
	if err := s.db.Where("status = ?", string(models.OrderStatusPending)).Order("placed_at asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("FetchPendingOrders: %w", err)
	}

	result := make([]*models.PendingOrder, 0, len(records))
	for i := range records {
		result = append(result, records[i].toModel())
	}

	return result, nil
}

func (s *GormDatabaseService) BulkExpireOrders(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.db.Model(&OrderRecord{}).
		Where("order_id IN ? AND status = ?", ids, string(models.OrderStatusPending)).
		Update("status", string(models.OrderStatusExpired)).Error
	if err != nil {
		return fmt.Errorf("BulkExpireOrders: %w", err)
	}

	return nil
}

// casOrderStatus moves an order out of PENDING, returning false when another
// writer already did.
func casOrderStatus(tx *gorm.DB, orderID uuid.UUID, updates map[string]interface{}) (bool, error) {
	result := tx.Model(&OrderRecord{}).
		Where("order_id = ? AND status = ?", orderID, string(models.OrderStatusPending)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (s *GormDatabaseService) CancelOrder(id uuid.UUID) (bool, error) {
	if _, err := s.FetchOrder(id); err != nil {
		return false, err
	}

	ok, err := casOrderStatus(s.db, id, map[string]interface{}{
		"status": string(models.OrderStatusCancelled),
	})
	if err != nil {
		return false, fmt.Errorf("CancelOrder: %w", err)
	}

	return ok, nil
}

func (s *GormDatabaseService) MarkOrderFailed(id uuid.UUID, reason string) (bool, error) {
	ok, err := casOrderStatus(s.db, id, map[string]interface{}{
		"status":         string(models.OrderStatusFailed),
		"failure_reason": reason,
	})
	if err != nil {
		return false, fmt.Errorf("MarkOrderFailed: %w", err)
	}

	return ok, nil
}

func (s *GormDatabaseService) CommitExecution(orderID uuid.UUID, account *models.Account, txn *models.Transaction, executedPrice decimal.Decimal, executedAt time.Time) (bool, error) {
	committed := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := casOrderStatus(tx, orderID, map[string]interface{}{
			"status":         string(models.OrderStatusExecuted),
			"executed_price": executedPrice,
			"executed_at":    executedAt,
		})
		if err != nil {
			return err
		}

		if !ok {
			// Lost the race against a cancel: leave everything untouched.
			return nil
		}

		if err := saveAccountTx(tx, account); err != nil {
			return err
		}

		if err := tx.Create(newTransactionRecord(txn)).Error; err != nil {
			return err
		}

		committed = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("CommitExecution: %w", err)
	}

	return committed, nil
}

func (s *GormDatabaseService) CreateAlgorithm(algorithm *models.Algorithm) error {
	strategyJSON, err := json.Marshal(algorithm.Strategy)
	if err != nil {
		return fmt.Errorf("CreateAlgorithm: failed to marshal strategy: %w", err)
	}

	record := &AlgorithmRecord{
		AlgorithmID:     algorithm.ID,
		UserID:          algorithm.UserID,
		Name:            algorithm.Name,
		Strategy:        string(strategyJSON),
		StartingCapital: algorithm.StartingCapital,
	}

	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("CreateAlgorithm: %w", err)
	}

	return nil
}

func (s *GormDatabaseService) FetchAlgorithm(id uuid.UUID) (*models.Algorithm, error) {
	var record AlgorithmRecord
	if err := s.db.Where("algorithm_id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAlgorithmNotFound
		}
		return nil, fmt.Errorf("FetchAlgorithm: %w", err)
	}

	algorithm := &models.Algorithm{
		ID:              record.AlgorithmID,
		UserID:          record.UserID,
		Name:            record.Name,
		StartingCapital: record.StartingCapital,
	}

	if err := json.Unmarshal([]byte(record.Strategy), &algorithm.Strategy); err != nil {
		return nil, fmt.Errorf("FetchAlgorithm: failed to unmarshal strategy: %w", err)
	}

	if record.LastResult != nil {
		var result models.BacktestResult
		if err := json.Unmarshal([]byte(*record.LastResult), &result); err != nil {
			return nil, fmt.Errorf("FetchAlgorithm: failed to unmarshal last result: %w", err)
		}
		algorithm.LastResult = &result
	}

	return algorithm, nil
}

func (s *GormDatabaseService) SaveAlgorithmResult(id uuid.UUID, result *models.BacktestResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("SaveAlgorithmResult: failed to marshal result: %w", err)
	}

	update := s.db.Model(&AlgorithmRecord{}).
		Where("algorithm_id = ?", id).
		Update("last_result", string(resultJSON))
	if update.Error != nil {
		return fmt.Errorf("SaveAlgorithmResult: %w", update.Error)
	}

	if update.RowsAffected == 0 {
		return models.ErrAlgorithmNotFound
	}

	return nil
}
