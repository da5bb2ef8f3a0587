package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func activeGame() *models.Game {
	return &models.Game{
		ID:                 primitive.NewObjectID(),
		Name:               "Weekly Jackpot",
		Slug:               "weekly-jackpot",
		CompanyID:          primitive.NewObjectID(),
		TicketPrice:        money.MustFromString("10.00"),
		PrizeAmount:        money.MustFromString("500.00"),
		PlatformFeePercent: money.MustFromString("10"),
		NumberRange:        100,
		Status:             models.GameStatusActive,
	}
}

func newPurchaseFixture(game *models.Game) (*TicketServiceImpl, *MockTicketRepository, *MockGameRepository, *MockUserRepository, *MockPaymentRepository, *MockWalletRepository, *MockGameFinanceRepository) {
	ticketRepo := new(MockTicketRepository)
	gameRepo := new(MockGameRepository)
	userRepo := new(MockUserRepository)
	paymentRepo := new(MockPaymentRepository)
	walletRepo := new(MockWalletRepository)
	financeRepo := new(MockGameFinanceRepository)

	walletSvc := NewWalletService(walletRepo, paymentRepo, passthroughTxRunner{})
	financeSvc := NewFinanceService(financeRepo, paymentRepo, gameRepo)
	svc := NewTicketService(ticketRepo, gameRepo, userRepo, paymentRepo, walletSvc, financeSvc, passthroughTxRunner{})
	return svc, ticketRepo, gameRepo, userRepo, paymentRepo, walletRepo, financeRepo
}

func TestPurchaseTicket_Success(t *testing.T) {
	game := activeGame()
	userID := primitive.NewObjectID()
	svc, ticketRepo, gameRepo, userRepo, paymentRepo, walletRepo, financeRepo := newPurchaseFixture(game)

	gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	ticketRepo.On("CountByGameAndNumbers", mock.Anything, game.ID, []int{1, 2, 3}).Return(int64(0), nil)
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Ticket")).Return(nil)
	walletRepo.On("Debit", mock.Anything, userID, models.WalletTypeMain, game.TicketPrice).Return(nil)
	paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Payment")).Return(nil)
	gameRepo.On("IncrementTicketsSold", mock.Anything, game.ID, 1).Return(nil)
	financeRepo.On("ApplySale", mock.Anything, game.ID,
		amountEq("10.00"), amountEq("1.00"), amountEq("9.00"),
		mock.Anything).Return(nil)
	userRepo.On("ApplyPurchaseStats", mock.Anything, userID, game.TicketPrice).Return(nil)

	ticket, err := svc.PurchaseTicket(context.Background(), userID, game.ID, []int{1, 2, 3})
	require.NoError(t, err)
	require.NotNil(t, ticket)
	assert.Equal(t, models.TicketStatusPending, ticket.Status)
	assert.Equal(t, []int{1, 2, 3}, ticket.Numbers)
	assert.Regexp(t, `^[A-Z]{4}-\d{8}-\d{5}$`, ticket.TicketID)

	ticketRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
	financeRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

// A same-day ticket id collision aborts the first attempt on the
// unique index; the purchase reruns with a regenerated id and succeeds.
func TestPurchaseTicket_TicketIDCollisionRetries(t *testing.T) {
	game := activeGame()
	userID := primitive.NewObjectID()
	svc, ticketRepo, gameRepo, userRepo, paymentRepo, walletRepo, financeRepo := newPurchaseFixture(game)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	ticketRepo.On("CountByGameAndNumbers", mock.Anything, game.ID, []int{4}).Return(int64(0), nil)

	var issuedIDs []string
	captureID := func(args mock.Arguments) {
		issuedIDs = append(issuedIDs, args.Get(1).(*models.Ticket).TicketID)
	}
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Ticket")).Run(captureID).Return(dup).Once()
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Ticket")).Run(captureID).Return(nil).Once()

	walletRepo.On("Debit", mock.Anything, userID, models.WalletTypeMain, game.TicketPrice).Return(nil)
	paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Payment")).Return(nil)
	gameRepo.On("IncrementTicketsSold", mock.Anything, game.ID, 1).Return(nil)
	financeRepo.On("ApplySale", mock.Anything, game.ID,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	userRepo.On("ApplyPurchaseStats", mock.Anything, userID, game.TicketPrice).Return(nil)

	ticket, err := svc.PurchaseTicket(context.Background(), userID, game.ID, []int{4})
	require.NoError(t, err)

	ticketRepo.AssertNumberOfCalls(t, "Create", 2)
	require.Len(t, issuedIDs, 2)
	assert.NotEqual(t, issuedIDs[0], issuedIDs[1])
	assert.Equal(t, issuedIDs[1], ticket.TicketID)

	// The failed attempt aborted before the money moved
	walletRepo.AssertNumberOfCalls(t, "Debit", 1)
	paymentRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestPurchaseTicket_GameNotOpen(t *testing.T) {
	game := activeGame()
	game.Status = models.GameStatusClosed
	userID := primitive.NewObjectID()
	svc, ticketRepo, gameRepo, _, paymentRepo, walletRepo, _ := newPurchaseFixture(game)

	gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)

	_, err := svc.PurchaseTicket(context.Background(), userID, game.ID, []int{5})
	assert.ErrorIs(t, err, ErrGameNotOpen)

	ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	walletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPurchaseTicket_InvalidNumbers(t *testing.T) {
	game := activeGame()
	userID := primitive.NewObjectID()
	svc, _, gameRepo, _, _, _, _ := newPurchaseFixture(game)
	gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)

	cases := [][]int{
		{},           // empty
		{0},          // below range
		{101},        // above range
		{7, 7},       // duplicate
		{1, 2, -3},   // negative
	}
	for _, numbers := range cases {
		_, err := svc.PurchaseTicket(context.Background(), userID, game.ID, numbers)
		assert.ErrorIs(t, err, ErrInvalidNumbers, "numbers %v", numbers)
	}
}

func TestPurchaseTicket_NumberAlreadyTaken(t *testing.T) {
	game := activeGame()
	userID := primitive.NewObjectID()
	svc, ticketRepo, gameRepo, _, paymentRepo, walletRepo, _ := newPurchaseFixture(game)

	gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	ticketRepo.On("CountByGameAndNumbers", mock.Anything, game.ID, []int{42}).Return(int64(1), nil)

	_, err := svc.PurchaseTicket(context.Background(), userID, game.ID, []int{42})
	assert.ErrorIs(t, err, ErrNumberAlreadyTaken)

	ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	walletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPurchaseTicket_InsufficientFunds(t *testing.T) {
	game := activeGame()
	userID := primitive.NewObjectID()
	svc, ticketRepo, gameRepo, userRepo, paymentRepo, walletRepo, financeRepo := newPurchaseFixture(game)

	gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	ticketRepo.On("CountByGameAndNumbers", mock.Anything, game.ID, []int{9}).Return(int64(0), nil)
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Ticket")).Return(nil)
	walletRepo.On("Debit", mock.Anything, userID, models.WalletTypeMain, game.TicketPrice).Return(repositories.ErrNoMatch)
	walletRepo.On("FindByUserAndType", mock.Anything, userID, models.WalletTypeMain).Return(&models.Wallet{
		UserID:     userID,
		WalletType: models.WalletTypeMain,
		Balance:    money.MustFromString("2.00"),
		IsActive:   true,
	}, nil)

	_, err := svc.PurchaseTicket(context.Background(), userID, game.ID, []int{9})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing after the failed debit may run; the surrounding
	// transaction discards the ticket insert.
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	financeRepo.AssertNotCalled(t, "ApplySale", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "ApplyPurchaseStats", mock.Anything, mock.Anything, mock.Anything)
	gameRepo.AssertNotCalled(t, "IncrementTicketsSold", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseTicket_InactiveWallet(t *testing.T) {
	game := activeGame()
	userID := primitive.NewObjectID()
	svc, ticketRepo, gameRepo, _, _, walletRepo, _ := newPurchaseFixture(game)

	gameRepo.On("FindByID", mock.Anything, game.ID).Return(game, nil)
	ticketRepo.On("CountByGameAndNumbers", mock.Anything, game.ID, []int{9}).Return(int64(0), nil)
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Ticket")).Return(nil)
	walletRepo.On("Debit", mock.Anything, userID, models.WalletTypeMain, game.TicketPrice).Return(repositories.ErrNoMatch)
	walletRepo.On("FindByUserAndType", mock.Anything, userID, models.WalletTypeMain).Return(&models.Wallet{
		UserID:     userID,
		WalletType: models.WalletTypeMain,
		Balance:    money.MustFromString("100.00"),
		IsActive:   false,
	}, nil)

	_, err := svc.PurchaseTicket(context.Background(), userID, game.ID, []int{9})
	assert.ErrorIs(t, err, ErrWalletInactive)
}
