package repository

import (
	"context"
	"testing"
	"time"

	"genie/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditRepository_Debit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "debit@example.com", 100)

	t.Run("Success", func(t *testing.T) {
		balance, err := repo.Debit(ctx, user.ID, 30, "Video generation")
		assert.NoError(t, err)
		assert.Equal(t, 70, balance)

		var txs []models.CreditTransaction
		require.NoError(t, db.Where("user_id = ?", user.ID).Find(&txs).Error)
		require.Len(t, txs, 1)
		assert.Equal(t, -30, txs[0].Amount)
		assert.Equal(t, models.CreditTxUsage, txs[0].Type)
		assert.Equal(t, "Video generation", txs[0].Description)
	})

	t.Run("Insufficient credits leaves state untouched", func(t *testing.T) {
		balance, err := repo.Debit(ctx, user.ID, 1000, "Video generation")
		assert.Zero(t, balance)

		var appErr *models.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeInsufficientCredits, appErr.Code)

		current, err := repo.Balance(ctx, user.ID)
		assert.NoError(t, err)
		assert.Equal(t, 70, current)

		var count int64
		require.NoError(t, db.Model(&models.CreditTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := repo.Debit(ctx, 999, 1, "Video generation")

		var appErr *models.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		for _, amount := range []int{0, -5} {
			_, err := repo.Debit(ctx, user.ID, amount, "Video generation")

			var appErr *models.AppError
			assert.ErrorAs(t, err, &appErr)
			assert.Equal(t, models.ErrCodeValidation, appErr.Code)
		}
	})

	t.Run("Exact balance drains to zero", func(t *testing.T) {
		balance, err := repo.Debit(ctx, user.ID, 70, "Video generation")
		assert.NoError(t, err)
		assert.Zero(t, balance)

		_, err = repo.Debit(ctx, user.ID, 1, "Video generation")
		var appErr *models.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeInsufficientCredits, appErr.Code)
	})
}

func TestCreditRepository_Credit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "credit@example.com", 100)

	t.Run("Success", func(t *testing.T) {
		balance, err := repo.Credit(ctx, user.ID, 500, models.CreditTxPurchase, "pro plan purchase")
		assert.NoError(t, err)
		assert.Equal(t, 600, balance)

		var txs []models.CreditTransaction
		require.NoError(t, db.Where("user_id = ?", user.ID).Find(&txs).Error)
		require.Len(t, txs, 1)
		assert.Equal(t, 500, txs[0].Amount)
		assert.Equal(t, models.CreditTxPurchase, txs[0].Type)
	})

	t.Run("Empty type defaults to purchase", func(t *testing.T) {
		_, err := repo.Credit(ctx, user.ID, 10, "", "Credit purchase")
		assert.NoError(t, err)

		var tx models.CreditTransaction
		require.NoError(t, db.Where("user_id = ? AND amount = ?", user.ID, 10).First(&tx).Error)
		assert.Equal(t, models.CreditTxPurchase, tx.Type)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := repo.Credit(ctx, 999, 10, models.CreditTxPurchase, "Credit purchase")

		var appErr *models.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	})
}

func TestCreditRepository_RecordGrant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "grant@example.com", models.SignupCreditGrant)

	err := repo.RecordGrant(ctx, user.ID, models.SignupCreditGrant, "Signup bonus")
	assert.NoError(t, err)

	// The grant is ledger-only: the balance was already set at row creation.
	balance, err := repo.Balance(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.SignupCreditGrant, balance)

	var txs []models.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&txs).Error)
	require.Len(t, txs, 1)
	assert.Equal(t, models.SignupCreditGrant, txs[0].Amount)
	assert.Equal(t, models.CreditTxBonus, txs[0].Type)
}

func TestCreditRepository_Transactions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "ledger@example.com", 100)

	base := time.Now().Add(-time.Hour)
	entries := []models.CreditTransaction{
		{UserID: user.ID, Amount: 100, Type: models.CreditTxBonus, Description: "Signup bonus", CreatedAt: base},
		{UserID: user.ID, Amount: -1, Type: models.CreditTxUsage, Description: "Chat completion", CreatedAt: base.Add(time.Minute)},
		{UserID: user.ID, Amount: 500, Type: models.CreditTxPurchase, Description: "pro plan purchase", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}

	txs, err := repo.Transactions(ctx, user.ID)
	assert.NoError(t, err)
	require.Len(t, txs, 3)

	// Newest first.
	assert.Equal(t, 500, txs[0].Amount)
	assert.Equal(t, -1, txs[1].Amount)
	assert.Equal(t, 100, txs[2].Amount)

	t.Run("Empty ledger", func(t *testing.T) {
		other := createUser(t, db, "empty@example.com", 100)
		txs, err := repo.Transactions(ctx, other.ID)
		assert.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestCreditRepository_Balance_MissingUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)

	balance, err := repo.Balance(context.Background(), 999)
	assert.NoError(t, err)
	assert.Zero(t, balance)
}
