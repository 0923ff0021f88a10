package controllers

import (
	"errors"

	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"gorm.io/gorm"
)

// getOrCreateWallet returns the owner's wallet, creating it with a zero
// balance on first use. Safe under concurrent first lookups: a lost create
// race falls back to re-reading the row the winner inserted.
func getOrCreateWallet(db *gorm.DB, ownerType string, ownerID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = models.Wallet{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Balance:   0,
		Currency:  "IDR",
		IsActive:  true,
	}
	if createErr := db.Create(&wallet).Error; createErr != nil {
		// Unique index on (owner_type, owner_id): someone else created it first
		if readErr := db.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).First(&wallet).Error; readErr != nil {
			return nil, createErr
		}
	}
	return &wallet, nil
}

// createWalletTransaction appends a ledger entry. Amount is signed: positive
// for credits, negative for debits, so a wallet's balance always equals the
// sum of its entries.
func createWalletTransaction(db *gorm.DB, walletID uint, amount int64, entryType, description string, bookingID *uint, reference string) (*models.WalletTransaction, error) {
	transaction := models.WalletTransaction{
		WalletID:    walletID,
		Amount:      amount,
		Type:        entryType,
		Status:      models.TransactionStatusAvailable,
		BookingID:   bookingID,
		Description: description,
		Reference:   reference,
	}

	if err := db.Create(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// creditWallet adds amount to the wallet balance as a single atomic update
func creditWallet(db *gorm.DB, walletID uint, amount int64) error {
	result := db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFoundError("Wallet not found")
	}
	return nil
}

// debitWallet subtracts amount from the wallet balance with a conditional
// update, so two concurrent debits can never take the balance negative.
// Zero rows affected on an existing wallet means insufficient funds.
func debitWallet(db *gorm.DB, walletID uint, amount int64) error {
	result := db.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Wallet{}).Where("id = ?", walletID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.NewNotFoundError("Wallet not found")
		}
		return utils.NewInsufficientFundsError("Insufficient wallet balance")
	}
	return nil
}
