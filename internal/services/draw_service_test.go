package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type settlementFixture struct {
	svc         *DrawServiceImpl
	drawRepo    *MockDrawRepository
	gameRepo    *MockGameRepository
	ticketRepo  *MockTicketRepository
	winnerRepo  *MockWinnerRepository
	paymentRepo *MockPaymentRepository
	walletRepo  *MockWalletRepository
	financeRepo *MockGameFinanceRepository
}

func newSettlementFixture() *settlementFixture {
	f := &settlementFixture{
		drawRepo:    new(MockDrawRepository),
		gameRepo:    new(MockGameRepository),
		ticketRepo:  new(MockTicketRepository),
		winnerRepo:  new(MockWinnerRepository),
		paymentRepo: new(MockPaymentRepository),
		walletRepo:  new(MockWalletRepository),
		financeRepo: new(MockGameFinanceRepository),
	}
	walletSvc := NewWalletService(f.walletRepo, f.paymentRepo, passthroughTxRunner{})
	financeSvc := NewFinanceService(f.financeRepo, f.paymentRepo, f.gameRepo)
	f.svc = NewDrawService(f.drawRepo, f.gameRepo, f.ticketRepo, f.winnerRepo, f.paymentRepo, walletSvc, financeSvc, passthroughTxRunner{})
	return f
}

// The end-to-end settlement scenario: $10 tickets, 10% platform fee,
// $500 prize. Alice holds numbers 1 and 2, Bob holds 3. The draw is
// forced to select number 2, so Alice wins the full prize and Bob's
// ticket loses.
func TestSettleGame_ForcedWinningNumber(t *testing.T) {
	f := newSettlementFixture()
	game := activeGame()
	staffID := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	aliceTicket := &models.Ticket{
		ID:       primitive.NewObjectID(),
		TicketID: "WEEK-20260830-00001",
		UserID:   alice,
		GameID:   game.ID,
		Numbers:  []int{1, 2},
		Status:   models.TicketStatusPending,
	}
	bobTicket := &models.Ticket{
		ID:       primitive.NewObjectID(),
		TicketID: "WEEK-20260830-00002",
		UserID:   bob,
		GameID:   game.ID,
		Numbers:  []int{3},
		Status:   models.TicketStatusPending,
	}

	// Pool is [1 2 3]; index 1 selects number 2
	f.svc.pick = func(n int) int {
		require.Equal(t, 3, n)
		return 1
	}

	f.gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	f.ticketRepo.On("FindPendingByGame", mock.Anything, game.ID).Return([]*models.Ticket{aliceTicket, bobTicket}, nil)
	f.drawRepo.On("NextDrawNumber", mock.Anything, game.ID).Return(1, nil)
	f.drawRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Draw")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Draw).ID = primitive.NewObjectID()
	}).Return(nil)

	f.ticketRepo.On("MarkSettled", mock.Anything, aliceTicket.ID, models.TicketStatusWon,
		game.PrizeAmount, 1, mock.Anything, mock.Anything).Return(nil)
	f.ticketRepo.On("MarkSettled", mock.Anything, bobTicket.ID, models.TicketStatusLost,
		amountEq("0.00"), 0, mock.Anything, mock.Anything).Return(nil)

	f.winnerRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Winner")).Return(nil)
	f.walletRepo.On("EnsureWallet", mock.Anything, alice, models.WalletTypeMain).Return(&models.Wallet{
		UserID: alice, WalletType: models.WalletTypeMain, IsActive: true,
	}, nil)
	f.walletRepo.On("Credit", mock.Anything, alice, models.WalletTypeMain, game.PrizeAmount).Return(nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Payment")).Return(nil)

	f.financeRepo.On("ApplyPrizePayout", mock.Anything, game.ID, game.PrizeAmount).Return(nil)
	f.financeRepo.On("FindByGame", mock.Anything, game.ID).Return(&models.GameFinance{
		GameID:         game.ID,
		TotalPrizePool: game.PrizeAmount,
		PrizePaidOut:   game.PrizeAmount,
		PrizeRemaining: money.Zero(),
	}, nil)
	f.financeRepo.On("SetPrizePaid", mock.Anything, game.ID, game.PrizeAmount, mock.Anything).Return(nil)

	f.drawRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Draw")).Return(nil)
	f.gameRepo.On("TransitionStatus", mock.Anything, game.ID, models.GameStatusActive, models.GameStatusClosed, mock.Anything).Return(nil)

	result, err := f.svc.SettleGame(context.Background(), game.ID, staffID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.AlreadyProcessed)

	assert.Equal(t, []int{2}, result.Draw.WinningNumbers)
	assert.Equal(t, 1, result.Draw.DrawNumber)
	assert.Equal(t, 2, result.Draw.TotalTickets)
	assert.Equal(t, 1, result.Draw.TotalWinners)
	assert.True(t, result.Draw.JackpotWon)
	assert.True(t, result.Draw.TotalPrizePaid.Equal(game.PrizeAmount))
	assert.True(t, result.Draw.Processed)

	require.Len(t, result.Winners, 1)
	assert.Equal(t, alice, result.Winners[0].UserID)
	assert.Equal(t, aliceTicket.ID, result.Winners[0].TicketID)
	assert.True(t, result.Winners[0].PrizeAmount.Equal(game.PrizeAmount))
	assert.Equal(t, "jackpot", result.Winners[0].PrizeTier)

	f.ticketRepo.AssertExpectations(t)
	f.winnerRepo.AssertExpectations(t)
	f.walletRepo.AssertExpectations(t)
	f.financeRepo.AssertExpectations(t)
	f.gameRepo.AssertExpectations(t)
}

// A fault mid-settlement must surface as an error with no result; the
// steps after the failure point never run, so the aborted transaction
// leaves no partially settled game behind.
func TestSettleGame_FaultAbortsSettlement(t *testing.T) {
	f := newSettlementFixture()
	game := activeGame()
	alice := primitive.NewObjectID()

	aliceTicket := &models.Ticket{
		ID:       primitive.NewObjectID(),
		TicketID: "WEEK-20260830-00001",
		UserID:   alice,
		GameID:   game.ID,
		Numbers:  []int{1, 2},
		Status:   models.TicketStatusPending,
	}
	bobTicket := &models.Ticket{
		ID:       primitive.NewObjectID(),
		TicketID: "WEEK-20260830-00002",
		UserID:   primitive.NewObjectID(),
		GameID:   game.ID,
		Numbers:  []int{3},
		Status:   models.TicketStatusPending,
	}

	// Number 2 wins for Alice, but crediting her wallet fails
	f.svc.pick = func(n int) int { return 1 }

	f.gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	f.ticketRepo.On("FindPendingByGame", mock.Anything, game.ID).Return([]*models.Ticket{aliceTicket, bobTicket}, nil)
	f.drawRepo.On("NextDrawNumber", mock.Anything, game.ID).Return(1, nil)
	f.drawRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Draw")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Draw).ID = primitive.NewObjectID()
	}).Return(nil)
	f.ticketRepo.On("MarkSettled", mock.Anything, aliceTicket.ID, models.TicketStatusWon,
		game.PrizeAmount, 1, mock.Anything, mock.Anything).Return(nil)
	f.winnerRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Winner")).Return(nil)
	f.walletRepo.On("EnsureWallet", mock.Anything, alice, models.WalletTypeMain).Return(&models.Wallet{
		UserID: alice, WalletType: models.WalletTypeMain, IsActive: true,
	}, nil)
	f.walletRepo.On("Credit", mock.Anything, alice, models.WalletTypeMain, game.PrizeAmount).
		Return(errors.New("connection reset"))

	result, err := f.svc.SettleGame(context.Background(), game.ID, primitive.NewObjectID())
	require.Error(t, err)
	assert.Nil(t, result)

	// Nothing after the failed credit may run; the aborted transaction
	// discards the draw and ticket writes above it.
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.financeRepo.AssertNotCalled(t, "ApplyPrizePayout", mock.Anything, mock.Anything, mock.Anything)
	f.ticketRepo.AssertNotCalled(t, "MarkSettled", mock.Anything, bobTicket.ID,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.drawRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.gameRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A second settlement of a closed game must not settle anything again
func TestSettleGame_AlreadyProcessed(t *testing.T) {
	f := newSettlementFixture()
	game := activeGame()
	game.Status = models.GameStatusClosed
	staffID := primitive.NewObjectID()

	existing := &models.Draw{
		ID:         primitive.NewObjectID(),
		GameID:     game.ID,
		DrawNumber: 1,
		Processed:  true,
	}

	f.gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	f.drawRepo.On("FindLatestByGame", mock.Anything, game.ID).Return(existing, nil)
	f.winnerRepo.On("FindByDrawID", mock.Anything, existing.ID).Return([]*models.Winner{}, nil)

	result, err := f.svc.SettleGame(context.Background(), game.ID, staffID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, existing.ID, result.Draw.ID)

	f.ticketRepo.AssertNotCalled(t, "FindPendingByGame", mock.Anything, mock.Anything)
	f.ticketRepo.AssertNotCalled(t, "MarkSettled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.drawRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleGame_NoTickets(t *testing.T) {
	f := newSettlementFixture()
	game := activeGame()

	f.gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	f.ticketRepo.On("FindPendingByGame", mock.Anything, game.ID).Return([]*models.Ticket{}, nil)

	_, err := f.svc.SettleGame(context.Background(), game.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNoTicketsToSettle)
	f.drawRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSettleGame_NotActive(t *testing.T) {
	f := newSettlementFixture()
	game := activeGame()
	game.Status = models.GameStatusDraft

	f.gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)

	_, err := f.svc.SettleGame(context.Background(), game.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrGameNotOpen)
}

func TestCheckTicket(t *testing.T) {
	f := newSettlementFixture()
	drawID := primitive.NewObjectID()

	won := &models.Ticket{
		ID:        primitive.NewObjectID(),
		DrawID:    drawID,
		Numbers:   []int{2, 5},
		Status:    models.TicketStatusWon,
		WinAmount: money.MustFromString("500.00"),
	}
	f.ticketRepo.On("FindByID", mock.Anything, won.ID).Return(won, nil)
	f.drawRepo.On("FindByID", mock.Anything, drawID).Return(&models.Draw{
		ID:             drawID,
		WinningNumbers: []int{2},
	}, nil)

	result, err := f.svc.CheckTicket(context.Background(), won.ID)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, 1, result.MatchCount)
	assert.True(t, result.WinAmount.Equal(money.MustFromString("500.00")))
}

func TestCheckTicket_Unsettled(t *testing.T) {
	f := newSettlementFixture()
	pending := &models.Ticket{
		ID:      primitive.NewObjectID(),
		Numbers: []int{7},
		Status:  models.TicketStatusPending,
	}
	f.ticketRepo.On("FindByID", mock.Anything, pending.ID).Return(pending, nil)

	result, err := f.svc.CheckTicket(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.Equal(t, 0, result.MatchCount)
	f.drawRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
