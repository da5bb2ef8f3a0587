package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"github.com/winningticket/lottery-backend/internal/utils"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl runs draws and settles games
type DrawServiceImpl struct {
	drawRepo    repositories.DrawRepository
	gameRepo    repositories.GameRepository
	ticketRepo  repositories.TicketRepository
	winnerRepo  repositories.WinnerRepository
	paymentRepo repositories.PaymentRepository
	walletSvc   WalletService
	financeSvc  FinanceService
	txRunner    repositories.TxRunner

	// pick selects an index in [0, n) from the pool of sold numbers.
	// Tests substitute a deterministic function.
	pick func(n int) int
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	drawRepo repositories.DrawRepository,
	gameRepo repositories.GameRepository,
	ticketRepo repositories.TicketRepository,
	winnerRepo repositories.WinnerRepository,
	paymentRepo repositories.PaymentRepository,
	walletSvc WalletService,
	financeSvc FinanceService,
	txRunner repositories.TxRunner,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:    drawRepo,
		gameRepo:    gameRepo,
		ticketRepo:  ticketRepo,
		winnerRepo:  winnerRepo,
		paymentRepo: paymentRepo,
		walletSvc:   walletSvc,
		financeSvc:  financeSvc,
		txRunner:    txRunner,
		pick:        rand.Intn,
	}
}

// SettleGame draws a winning number for the game, settles every pending
// ticket, pays the winners and closes the game, all inside one
// transaction. Settling an already closed game reports the existing
// draw instead of running again.
func (s *DrawServiceImpl) SettleGame(ctx context.Context, gameID, staffUserID primitive.ObjectID) (*SettlementResult, error) {
	var result *SettlementResult

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context) error {
		// 1. Load the game. Closed means a previous settlement won the
		// race; report its draw as already processed.
		game, err := s.gameRepo.FindByID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to load game: %w", err)
		}
		if game.Status == models.GameStatusClosed {
			result, err = s.processedResult(ctx, gameID)
			return err
		}
		if game.Status != models.GameStatusActive {
			return ErrGameNotOpen
		}

		// 2. Load the pending tickets
		tickets, err := s.ticketRepo.FindPendingByGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to load pending tickets: %w", err)
		}
		if len(tickets) == 0 {
			return ErrNoTicketsToSettle
		}

		// 3. Draw the winning number from the multiset of all sold
		// numbers. Every number in the pool belongs to a ticket, so a
		// winner always exists.
		pool := make([]int, 0, len(tickets))
		for _, t := range tickets {
			pool = append(pool, t.Numbers...)
		}
		winning := pool[s.pick(len(pool))]

		// 4. Record the draw
		drawNumber, err := s.drawRepo.NextDrawNumber(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to allocate draw number: %w", err)
		}
		now := time.Now()
		draw := &models.Draw{
			GameID:         gameID,
			DrawDate:       now,
			DrawNumber:     drawNumber,
			WinningNumbers: []int{winning},
			JackpotAmount:  game.PrizeAmount,
			Processed:      true,
			ProcessedAt:    now,
			CreatedBy:      staffUserID,
		}
		if err := s.drawRepo.Create(ctx, draw); err != nil {
			return fmt.Errorf("failed to create draw: %w", err)
		}

		// 5. Settle every pending ticket
		winners := make([]*models.Winner, 0, 1)
		totalPaid := money.Zero()
		for _, ticket := range tickets {
			if !ticket.HasNumber(winning) {
				if err := s.ticketRepo.MarkSettled(ctx, ticket.ID, models.TicketStatusLost, money.Zero(), 0, draw.ID, now); err != nil {
					return fmt.Errorf("failed to settle losing ticket %s: %w", ticket.TicketID, err)
				}
				continue
			}

			winner, err := s.payWinner(ctx, game, draw, ticket, now)
			if err != nil {
				return err
			}
			winners = append(winners, winner)
			totalPaid = totalPaid.Add(winner.PrizeAmount)
		}

		// 6. Draw statistics
		draw.TotalTickets = len(tickets)
		draw.TotalWinners = len(winners)
		draw.TotalPrizePaid = totalPaid
		draw.JackpotWon = len(winners) > 0
		if err := s.drawRepo.Update(ctx, draw); err != nil {
			return fmt.Errorf("failed to update draw stats: %w", err)
		}

		// 7. Close the game
		if err := s.gameRepo.TransitionStatus(ctx, gameID, models.GameStatusActive, models.GameStatusClosed, time.Time{}); err != nil {
			return fmt.Errorf("failed to close game: %w", err)
		}

		result = &SettlementResult{Draw: draw, Winners: winners}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyProcessed {
		slog.Info("Game settled",
			"gameId", gameID.Hex(),
			"drawNumber", result.Draw.DrawNumber,
			"winningNumbers", result.Draw.WinningNumbers,
			"tickets", result.Draw.TotalTickets,
			"winners", result.Draw.TotalWinners,
			"prizePaid", result.Draw.TotalPrizePaid.String(),
		)
	}
	return result, nil
}

// payWinner settles one winning ticket: status, winner record, wallet
// credit, payout payment and the finance aggregate.
func (s *DrawServiceImpl) payWinner(ctx context.Context, game *models.Game, draw *models.Draw, ticket *models.Ticket, now time.Time) (*models.Winner, error) {
	prize := game.PrizeAmount

	if err := s.ticketRepo.MarkSettled(ctx, ticket.ID, models.TicketStatusWon, prize, 1, draw.ID, now); err != nil {
		return nil, fmt.Errorf("failed to settle winning ticket %s: %w", ticket.TicketID, err)
	}

	winner := &models.Winner{
		UserID:      ticket.UserID,
		TicketID:    ticket.ID,
		DrawID:      draw.ID,
		PrizeAmount: prize,
		PrizeTier:   "jackpot",
	}
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to create winner record: %w", err)
	}

	if err := s.walletSvc.Credit(ctx, ticket.UserID, models.WalletTypeMain, prize); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		TransactionID: utils.GenerateTransactionID("WIN"),
		UserID:        ticket.UserID,
		GameID:        game.ID,
		TicketID:      ticket.ID,
		Amount:        prize,
		PaymentType:   models.PaymentTypePayout,
		PaymentMethod: models.PaymentMethodWallet,
		Status:        models.PaymentStatusCompleted,
		CompletedAt:   now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payout payment: %w", err)
	}

	if err := s.financeSvc.RecordPrizePayout(ctx, game.ID, prize); err != nil {
		return nil, err
	}
	return winner, nil
}

// processedResult loads the latest draw of an already closed game
func (s *DrawServiceImpl) processedResult(ctx context.Context, gameID primitive.ObjectID) (*SettlementResult, error) {
	draw, err := s.drawRepo.FindLatestByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing draw: %w", err)
	}
	winners, err := s.winnerRepo.FindByDrawID(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing winners: %w", err)
	}
	slog.Warn("Settlement requested for already processed game", "gameId", gameID.Hex(), "drawNumber", draw.DrawNumber)
	return &SettlementResult{Draw: draw, Winners: winners, AlreadyProcessed: true}, nil
}

// CheckTicket re-verifies one ticket against its draw. The result
// mirrors the bulk settlement outcome and never moves money.
func (s *DrawServiceImpl) CheckTicket(ctx context.Context, ticketID primitive.ObjectID) (*TicketCheckResult, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if ticket.DrawID.IsZero() {
		// Not settled yet
		return &TicketCheckResult{Ticket: ticket, WinAmount: money.Zero()}, nil
	}

	draw, err := s.drawRepo.FindByID(ctx, ticket.DrawID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw: %w", err)
	}
	matches := ticket.MatchesAgainst(draw.WinningNumbers)
	return &TicketCheckResult{
		Ticket:     ticket,
		Won:        matches > 0,
		MatchCount: matches,
		WinAmount:  ticket.WinAmount,
	}, nil
}

// GetDraw finds a draw by ID
func (s *DrawServiceImpl) GetDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	return s.drawRepo.FindByID(ctx, id)
}

// GetGameDraws lists the draws of a game, newest first
func (s *DrawServiceImpl) GetGameDraws(ctx context.Context, gameID primitive.ObjectID) ([]*models.Draw, error) {
	return s.drawRepo.FindByGame(ctx, gameID)
}
