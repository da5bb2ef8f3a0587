package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure FinanceServiceImpl implements FinanceService
var _ FinanceService = (*FinanceServiceImpl)(nil)

// FinanceServiceImpl maintains the per-game financial aggregate. All
// increments are delegated to server-side atomic updates; this layer
// adds the fee split and the settlement flag logic.
type FinanceServiceImpl struct {
	financeRepo repositories.GameFinanceRepository
	paymentRepo repositories.PaymentRepository
	gameRepo    repositories.GameRepository
}

// NewFinanceService creates a new FinanceServiceImpl
func NewFinanceService(
	financeRepo repositories.GameFinanceRepository,
	paymentRepo repositories.PaymentRepository,
	gameRepo repositories.GameRepository,
) *FinanceServiceImpl {
	return &FinanceServiceImpl{
		financeRepo: financeRepo,
		paymentRepo: paymentRepo,
		gameRepo:    gameRepo,
	}
}

// splitSale divides one sale amount into platform fee and organizer
// profit using the game's fee percentage.
func splitSale(game *models.Game, amount money.Amount) (fee, profit money.Amount) {
	fee = amount.Percent(game.PlatformFeePercent)
	profit = amount.Sub(fee)
	return fee, profit
}

// RecordSale folds one completed ticket sale into the aggregates.
// Callers run it inside the purchase transaction so a failed purchase
// leaves the aggregate untouched.
func (s *FinanceServiceImpl) RecordSale(ctx context.Context, game *models.Game, amount money.Amount, at time.Time) error {
	fee, profit := splitSale(game, amount)
	err := s.financeRepo.ApplySale(ctx, game.ID, amount, fee, profit, at)
	if err != nil {
		return fmt.Errorf("failed to record sale for game %s: %w", game.ID.Hex(), err)
	}
	return nil
}

// RecordPrizePayout adds one payout to prize_paid_out. When the pool is
// exhausted the prizePaid flag flips, exactly once.
func (s *FinanceServiceImpl) RecordPrizePayout(ctx context.Context, gameID primitive.ObjectID, amount money.Amount) error {
	if err := s.financeRepo.ApplyPrizePayout(ctx, gameID, amount); err != nil {
		return fmt.Errorf("failed to apply prize payout: %w", err)
	}

	finance, err := s.financeRepo.FindByGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to load finance record after payout: %w", err)
	}
	if finance.PrizeRemaining.IsPositive() {
		return nil
	}

	err = s.financeRepo.SetPrizePaid(ctx, gameID, finance.TotalPrizePool, time.Now())
	if err != nil && !errors.Is(err, repositories.ErrNoMatch) {
		return fmt.Errorf("failed to mark prizes paid: %w", err)
	}
	return nil
}

// SettleFees flips the one-way feesSettled flag. Repeating the call is
// a no-op.
func (s *FinanceServiceImpl) SettleFees(ctx context.Context, gameID primitive.ObjectID) error {
	err := s.financeRepo.SetFeesSettled(ctx, gameID)
	if errors.Is(err, repositories.ErrNoMatch) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to settle fees: %w", err)
	}
	slog.Info("Platform fees settled", "gameId", gameID.Hex())
	return nil
}

// PayProfit flips the one-way profitPaid flag. Repeating the call is a
// no-op.
func (s *FinanceServiceImpl) PayProfit(ctx context.Context, gameID primitive.ObjectID) error {
	err := s.financeRepo.SetProfitPaid(ctx, gameID, time.Now())
	if errors.Is(err, repositories.ErrNoMatch) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to pay out profit: %w", err)
	}
	slog.Info("Organizer profit paid", "gameId", gameID.Hex())
	return nil
}

// CheckSettlement flips the settled flag when prizes, fees and profit
// have all been settled and no prize money remains. The flag is
// monotone, once set it is never cleared.
func (s *FinanceServiceImpl) CheckSettlement(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error) {
	finance, err := s.financeRepo.FindByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load finance record: %w", err)
	}
	if finance.Settled || !finance.ReadyToSettle() {
		return finance, nil
	}

	err = s.financeRepo.SetSettled(ctx, gameID, time.Now())
	if err != nil && !errors.Is(err, repositories.ErrNoMatch) {
		return nil, fmt.Errorf("failed to mark game settled: %w", err)
	}
	slog.Info("Game finances fully settled", "gameId", gameID.Hex())
	return s.financeRepo.FindByGame(ctx, gameID)
}

// GetFinance returns the finance record of a game
func (s *FinanceServiceImpl) GetFinance(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error) {
	return s.financeRepo.FindByGame(ctx, gameID)
}

// Reconcile rebuilds the aggregate from the completed payment history
// and overwrites the incremental record. The incremental path and this
// replay must agree; a divergence means a sale or payout bypassed the
// transaction boundary.
func (s *FinanceServiceImpl) Reconcile(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	finance, err := s.financeRepo.FindByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load finance record: %w", err)
	}

	// 1. Replay ticket sales
	sales, err := s.paymentRepo.FindCompletedByGameAndType(ctx, gameID, models.PaymentTypeTicket)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale payments: %w", err)
	}
	totalSales := money.Zero()
	totalFees := money.Zero()
	totalProfit := money.Zero()
	for _, p := range sales {
		fee, profit := splitSale(game, p.Amount)
		totalSales = totalSales.Add(p.Amount)
		totalFees = totalFees.Add(fee)
		totalProfit = totalProfit.Add(profit)
	}

	// 2. Replay prize payouts
	payouts, err := s.paymentRepo.FindCompletedByGameAndType(ctx, gameID, models.PaymentTypePayout)
	if err != nil {
		return nil, fmt.Errorf("failed to load payout payments: %w", err)
	}
	prizePaid := money.Zero()
	for _, p := range payouts {
		prizePaid = prizePaid.Add(p.Amount)
	}

	// 3. Overwrite the money fields; settlement flags and their audit
	// dates are state, not aggregates, and stay as recorded.
	finance.TotalSales = totalSales
	finance.TotalTickets = len(sales)
	finance.PlatformFeeAmount = totalFees
	finance.OrganizerProfit = totalProfit
	finance.PrizePaidOut = prizePaid
	finance.PrizeRemaining = finance.TotalPrizePool.Sub(prizePaid)

	if err := s.financeRepo.Replace(ctx, finance); err != nil {
		return nil, fmt.Errorf("failed to write reconciled record: %w", err)
	}

	slog.Info("Game finances reconciled",
		"gameId", gameID.Hex(),
		"totalSales", totalSales.String(),
		"tickets", len(sales),
		"prizePaidOut", prizePaid.String(),
	)
	return finance, nil
}
