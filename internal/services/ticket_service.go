package services

import (
	"context"
	"fmt"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"github.com/winningticket/lottery-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure TicketServiceImpl implements TicketService
var _ TicketService = (*TicketServiceImpl)(nil)

// TicketServiceImpl handles ticket issuance
type TicketServiceImpl struct {
	ticketRepo  repositories.TicketRepository
	gameRepo    repositories.GameRepository
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	walletSvc   WalletService
	financeSvc  FinanceService
	txRunner    repositories.TxRunner
}

// NewTicketService creates a new TicketServiceImpl
func NewTicketService(
	ticketRepo repositories.TicketRepository,
	gameRepo repositories.GameRepository,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	walletSvc WalletService,
	financeSvc FinanceService,
	txRunner repositories.TxRunner,
) *TicketServiceImpl {
	return &TicketServiceImpl{
		ticketRepo:  ticketRepo,
		gameRepo:    gameRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		walletSvc:   walletSvc,
		financeSvc:  financeSvc,
		txRunner:    txRunner,
	}
}

// validateNumbers checks the requested numbers against the game's range
func validateNumbers(numbers []int, numberRange int) error {
	if len(numbers) == 0 {
		return ErrInvalidNumbers
	}
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > numberRange {
			return ErrInvalidNumbers
		}
		if _, dup := seen[n]; dup {
			return ErrInvalidNumbers
		}
		seen[n] = struct{}{}
	}
	return nil
}

// PurchaseTicket issues a ticket for the requested numbers. The whole
// pipeline runs inside one transaction: ticket insert, wallet debit,
// payment record, sales counter and finance aggregate commit together
// or not at all.
func (s *TicketServiceImpl) PurchaseTicket(ctx context.Context, userID, gameID primitive.ObjectID, numbers []int) (*models.Ticket, error) {
	// Cheap pre-checks outside the transaction
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if !game.IsOpenForSales() {
		return nil, ErrGameNotOpen
	}
	if err := validateNumbers(numbers, game.NumberRange); err != nil {
		return nil, err
	}

	now := time.Now()
	ticket := &models.Ticket{
		TicketID: utils.GenerateTicketID(game.Slug, now),
		UserID:   userID,
		GameID:   gameID,
		Numbers:  numbers,
		Status:   models.TicketStatusPending,
	}

	purchase := func(ctx context.Context) error {
		// 1. Re-check the game inside the transaction; a concurrent
		// settlement may have closed it since the pre-check.
		fresh, err := s.gameRepo.FindByID(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to reload game: %w", err)
		}
		if !fresh.IsOpenForSales() {
			return ErrGameNotOpen
		}

		// 2. Number exclusivity. Refunded tickets keep their numbers, so
		// the count covers every ticket ever issued for the game.
		taken, err := s.ticketRepo.CountByGameAndNumbers(ctx, gameID, numbers)
		if err != nil {
			return fmt.Errorf("failed to check number availability: %w", err)
		}
		if taken > 0 {
			return ErrNumberAlreadyTaken
		}

		// 3. Issue the ticket
		if err := s.ticketRepo.Create(ctx, ticket); err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}

		// 4. Take the money
		if err := s.walletSvc.Debit(ctx, userID, models.WalletTypeMain, fresh.TicketPrice); err != nil {
			return err
		}

		// 5. Audit trail
		payment := &models.Payment{
			TransactionID: utils.GenerateTransactionID("TKT"),
			UserID:        userID,
			GameID:        gameID,
			TicketID:      ticket.ID,
			Amount:        fresh.TicketPrice,
			PaymentType:   models.PaymentTypeTicket,
			PaymentMethod: models.PaymentMethodWallet,
			Status:        models.PaymentStatusCompleted,
			CompletedAt:   now,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to record ticket payment: %w", err)
		}

		// 6. Aggregates
		if err := s.gameRepo.IncrementTicketsSold(ctx, gameID, 1); err != nil {
			return fmt.Errorf("failed to bump tickets sold: %w", err)
		}
		if err := s.financeSvc.RecordSale(ctx, fresh, fresh.TicketPrice, now); err != nil {
			return err
		}
		return s.userRepo.ApplyPurchaseStats(ctx, userID, fresh.TicketPrice)
	}

	// A same-day ticket id collision hits the unique index on ticketId
	// and aborts the transaction; regenerate the id and rerun. The
	// failed attempt committed nothing, so the rerun starts clean.
	err = s.txRunner.WithTransaction(ctx, purchase)
	for attempt := 0; attempt < 2 && mongo.IsDuplicateKeyError(err); attempt++ {
		ticket.TicketID = utils.GenerateTicketID(game.Slug, now)
		err = s.txRunner.WithTransaction(ctx, purchase)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Ticket purchased",
		"ticketId", ticket.TicketID,
		"userId", userID.Hex(),
		"gameId", gameID.Hex(),
		"numbers", numbers,
	)
	return ticket, nil
}

// GetTicket finds a ticket by internal ID
func (s *TicketServiceImpl) GetTicket(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	return ticket, nil
}

// GetTicketByPublicID finds a ticket by its printed reference
func (s *TicketServiceImpl) GetTicketByPublicID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	return s.ticketRepo.FindByTicketID(ctx, ticketID)
}

// GetUserTickets lists all tickets of a user
func (s *TicketServiceImpl) GetUserTickets(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	return s.ticketRepo.FindByUser(ctx, userID)
}
