package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"github.com/winningticket/lottery-backend/internal/utils"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WalletServiceImpl implements WalletService
var _ WalletService = (*WalletServiceImpl)(nil)

// WalletServiceImpl handles wallet accounting
type WalletServiceImpl struct {
	walletRepo  repositories.WalletRepository
	paymentRepo repositories.PaymentRepository
	txRunner    repositories.TxRunner
}

// NewWalletService creates a new WalletServiceImpl
func NewWalletService(
	walletRepo repositories.WalletRepository,
	paymentRepo repositories.PaymentRepository,
	txRunner repositories.TxRunner,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:  walletRepo,
		paymentRepo: paymentRepo,
		txRunner:    txRunner,
	}
}

// EnsureWallet returns the (user, type) wallet, creating it on first
// access.
func (s *WalletServiceImpl) EnsureWallet(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error) {
	wallet, err := s.walletRepo.EnsureWallet(ctx, userID, walletType)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure wallet: %w", err)
	}
	return wallet, nil
}

// GetWallets lists all wallets of a user
func (s *WalletServiceImpl) GetWallets(ctx context.Context, userID primitive.ObjectID) ([]*models.Wallet, error) {
	return s.walletRepo.FindByUser(ctx, userID)
}

// Debit removes amount from the wallet. The repository applies the
// decrement only when the active balance covers it, so two concurrent
// debits can never overdraw.
func (s *WalletServiceImpl) Debit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive, got %s", amount)
	}
	err := s.walletRepo.Debit(ctx, userID, walletType, amount)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNoMatch) {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	// The conditional update filtered out. Read the wallet once to tell
	// an inactive wallet apart from an insufficient balance.
	wallet, findErr := s.walletRepo.FindByUserAndType(ctx, userID, walletType)
	if findErr != nil {
		if errors.Is(findErr, mongo.ErrNoDocuments) {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("failed to inspect wallet after rejected debit: %w", findErr)
	}
	if !wallet.IsActive {
		return ErrWalletInactive
	}
	return ErrInsufficientFunds
}

// Credit adds amount to the wallet, creating it if missing
func (s *WalletServiceImpl) Credit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error {
	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive, got %s", amount)
	}
	if _, err := s.walletRepo.EnsureWallet(ctx, userID, walletType); err != nil {
		return fmt.Errorf("failed to ensure wallet before credit: %w", err)
	}
	err := s.walletRepo.Credit(ctx, userID, walletType, amount)
	if errors.Is(err, repositories.ErrNoMatch) {
		return ErrWalletInactive
	}
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}

// Deposit credits the main wallet and records the deposit as a
// completed payment inside one transaction.
func (s *WalletServiceImpl) Deposit(ctx context.Context, userID primitive.ObjectID, amount money.Amount) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive, got %s", amount)
	}

	payment := &models.Payment{
		TransactionID: utils.GenerateTransactionID("DEP"),
		UserID:        userID,
		Amount:        amount,
		PaymentType:   models.PaymentTypeDeposit,
		PaymentMethod: models.PaymentMethodWallet,
		Status:        models.PaymentStatusCompleted,
		CompletedAt:   time.Now(),
	}

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Credit(ctx, userID, models.WalletTypeMain, amount); err != nil {
			return err
		}
		return s.paymentRepo.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Wallet deposit completed", "userId", userID.Hex(), "amount", amount.String(), "transactionId", payment.TransactionID)
	return payment, nil
}

// Withdraw debits the main wallet and records the withdrawal as a
// completed payment inside one transaction.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, userID primitive.ObjectID, amount money.Amount) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("withdrawal amount must be positive, got %s", amount)
	}

	payment := &models.Payment{
		TransactionID: utils.GenerateTransactionID("WDR"),
		UserID:        userID,
		Amount:        amount,
		PaymentType:   models.PaymentTypeWithdrawal,
		PaymentMethod: models.PaymentMethodWallet,
		Status:        models.PaymentStatusCompleted,
		CompletedAt:   time.Now(),
	}

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Debit(ctx, userID, models.WalletTypeMain, amount); err != nil {
			return err
		}
		return s.paymentRepo.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Wallet withdrawal completed", "userId", userID.Hex(), "amount", amount.String(), "transactionId", payment.TransactionID)
	return payment, nil
}
