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
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WinnerServiceImpl implements WinnerService
var _ WinnerService = (*WinnerServiceImpl)(nil)

// WinnerServiceImpl handles the claim and payout lifecycle of winners
type WinnerServiceImpl struct {
	winnerRepo  repositories.WinnerRepository
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	txRunner    repositories.TxRunner
}

// NewWinnerService creates a new WinnerServiceImpl
func NewWinnerService(
	winnerRepo repositories.WinnerRepository,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	txRunner repositories.TxRunner,
) *WinnerServiceImpl {
	return &WinnerServiceImpl{
		winnerRepo:  winnerRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		txRunner:    txRunner,
	}
}

// ClaimPrize flips the one-way claimed flag and adds the prize to the
// user's lifetime winnings. Only the winning user may claim.
func (s *WinnerServiceImpl) ClaimPrize(ctx context.Context, winnerID, userID primitive.ObjectID) (*models.Winner, error) {
	winner, err := s.winnerRepo.FindByID(ctx, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load winner: %w", err)
	}
	if winner.UserID != userID {
		return nil, errors.New("prize belongs to a different user")
	}
	if winner.Claimed {
		return nil, ErrAlreadyClaimed
	}

	now := time.Now()
	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context) error {
		// The conditional update is the gate: of two racing claims
		// only one matches the unclaimed document, so the win stats
		// are applied exactly once.
		if err := s.winnerRepo.MarkClaimed(ctx, winnerID, now); err != nil {
			if errors.Is(err, repositories.ErrNoMatch) {
				return ErrAlreadyClaimed
			}
			return fmt.Errorf("failed to mark prize claimed: %w", err)
		}
		return s.userRepo.ApplyWinStats(ctx, userID, winner.PrizeAmount)
	})
	if err != nil {
		return nil, err
	}
	winner.Claimed = true
	winner.ClaimedAt = now

	slog.Info("Prize claimed", "winnerId", winnerID.Hex(), "userId", userID.Hex(), "prize", winner.PrizeAmount.String())
	return winner, nil
}

// RecordPayout marks a claimed prize as paid out through an external
// channel. The payment records the net amount after tax withholding,
// which must never go negative.
func (s *WinnerServiceImpl) RecordPayout(ctx context.Context, winnerID primitive.ObjectID, method, reference string, taxWithheld money.Amount) (*models.Winner, error) {
	winner, err := s.winnerRepo.FindByID(ctx, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load winner: %w", err)
	}
	if !winner.Claimed {
		return nil, ErrNotClaimed
	}
	if winner.Paid {
		return winner, nil
	}
	if taxWithheld.IsNegative() || winner.PrizeAmount.LessThan(taxWithheld) {
		return nil, fmt.Errorf("tax withheld %s exceeds prize %s", taxWithheld, winner.PrizeAmount)
	}

	now := time.Now()
	payment := &models.Payment{
		TransactionID:     utils.GenerateTransactionID("PAY"),
		InternalReference: reference,
		UserID:            winner.UserID,
		Amount:            winner.PrizeAmount.Sub(taxWithheld),
		PaymentType:       models.PaymentTypePayout,
		PaymentMethod:     models.PaymentMethod(method),
		Status:            models.PaymentStatusCompleted,
		CompletedAt:       now,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context) error {
		// Conditional on claimed && !paid; the loser of a payout race
		// aborts here, before the payment insert.
		if err := s.winnerRepo.MarkPaid(ctx, winnerID, taxWithheld, method, reference, now); err != nil {
			if errors.Is(err, repositories.ErrNoMatch) {
				return err
			}
			return fmt.Errorf("failed to mark prize paid: %w", err)
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to record payout payment: %w", err)
		}
		return nil
	})
	if errors.Is(err, repositories.ErrNoMatch) {
		// A concurrent payout already recorded; report the winner as
		// it now stands, with no second payment.
		return s.winnerRepo.FindByID(ctx, winnerID)
	}
	if err != nil {
		return nil, err
	}

	winner.Paid = true
	winner.PaidAt = now
	winner.TaxWithheld = taxWithheld
	winner.PayoutMethod = method
	winner.PayoutReference = reference

	slog.Info("Prize payout recorded",
		"winnerId", winnerID.Hex(),
		"net", winner.NetAmount().String(),
		"taxWithheld", taxWithheld.String(),
		"method", method,
	)
	return winner, nil
}

// GetDrawWinners lists the winners of a draw
func (s *WinnerServiceImpl) GetDrawWinners(ctx context.Context, drawID primitive.ObjectID) ([]*models.Winner, error) {
	return s.winnerRepo.FindByDrawID(ctx, drawID)
}

// GetUserWinners lists a user's winner records
func (s *WinnerServiceImpl) GetUserWinners(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	return s.winnerRepo.FindByUserID(ctx, userID)
}
