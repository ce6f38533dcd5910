package repository

import (
	"context"
	"errors"

	"genie/internal/cache"
	"genie/internal/middleware"
	"genie/internal/models"

	"gorm.io/gorm"
)

// CreditRepository is the credit ledger: a per-user balance projection on the
// users table plus an append-only credit_transactions log.
type CreditRepository interface {
	// Balance returns the current balance, 0 if the user row is absent.
	Balance(ctx context.Context, userID uint) (int, error)
	// Debit decreases the balance by amount, failing with an
	// insufficient-credits error when amount exceeds the balance. The
	// conditional decrement and the transaction row are applied atomically.
	Debit(ctx context.Context, userID uint, amount int, description string) (int, error)
	// Credit unconditionally increases the balance.
	Credit(ctx context.Context, userID uint, amount int, txType, description string) (int, error)
	// RecordGrant appends a bonus ledger entry without touching the balance.
	// Used for the signup grant, where the balance is set at row creation.
	RecordGrant(ctx context.Context, userID uint, amount int, description string) error
	// Transactions lists the user's ledger entries, newest first.
	Transactions(ctx context.Context, userID uint) ([]models.CreditTransaction, error)
}

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository returns a new CreditRepository implementation.
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Balance(ctx context.Context, userID uint) (int, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("credits").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, models.NewInternalError(err)
	}
	return user.Credits, nil
}

func (r *creditRepository) Debit(ctx context.Context, userID uint, amount int, description string) (int, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("Amount must be positive")
	}

	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single conditional decrement: the balance check and the write are
		// one statement, so two concurrent debits cannot both pass on a
		// stale read.
		res := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", userID, amount).
			Updates(map[string]any{"credits": gorm.Expr("credits - ?", amount)})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return models.NewInternalError(err)
			}
			if count == 0 {
				return models.NewNotFoundError("User not found")
			}
			return models.NewInsufficientCreditsError()
		}

		entry := models.CreditTransaction{
			UserID:      userID,
			Amount:      -amount,
			Type:        models.CreditTxUsage,
			Description: description,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return models.NewInternalError(err)
		}

		var user models.User
		if err := tx.Select("credits").First(&user, userID).Error; err != nil {
			return models.NewInternalError(err)
		}
		newBalance = user.Credits
		return nil
	})
	if err != nil {
		return 0, err
	}

	cache.InvalidateUser(ctx, userID)
	middleware.LedgerOps.WithLabelValues("debit").Inc()
	return newBalance, nil
}

func (r *creditRepository) Credit(ctx context.Context, userID uint, amount int, txType, description string) (int, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("Amount must be positive")
	}
	if txType == "" {
		txType = models.CreditTxPurchase
	}

	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{"credits": gorm.Expr("credits + ?", amount)})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User not found")
		}

		entry := models.CreditTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        txType,
			Description: description,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return models.NewInternalError(err)
		}

		var user models.User
		if err := tx.Select("credits").First(&user, userID).Error; err != nil {
			return models.NewInternalError(err)
		}
		newBalance = user.Credits
		return nil
	})
	if err != nil {
		return 0, err
	}

	cache.InvalidateUser(ctx, userID)
	middleware.LedgerOps.WithLabelValues("credit").Inc()
	return newBalance, nil
}

func (r *creditRepository) RecordGrant(ctx context.Context, userID uint, amount int, description string) error {
	entry := models.CreditTransaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.CreditTxBonus,
		Description: description,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	middleware.LedgerOps.WithLabelValues("grant").Inc()
	return nil
}

func (r *creditRepository) Transactions(ctx context.Context, userID uint) ([]models.CreditTransaction, error) {
	var txs []models.CreditTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return txs, nil
}
