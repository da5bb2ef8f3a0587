package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// amountEq matches a money.Amount by value, independent of the decimal
// exponent it was computed with.
func amountEq(s string) interface{} {
	want := money.MustFromString(s)
	return mock.MatchedBy(func(a money.Amount) bool { return a.Equal(want) })
}

// passthroughTxRunner executes the function directly. The transaction
// boundary itself is exercised by the storage layer; service tests only
// need the callback to run.
type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyPurchaseStats(ctx context.Context, userID primitive.ObjectID, spent money.Amount) error {
	args := m.Called(ctx, userID, spent)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyWinStats(ctx context.Context, userID primitive.ObjectID, won money.Amount) error {
	args := m.Called(ctx, userID, won)
	return args.Error(0)
}

// MockWalletRepository is a mock implementation of repositories.WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) EnsureWallet(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error) {
	args := m.Called(ctx, userID, walletType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindByUserAndType(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error) {
	args := m.Called(ctx, userID, walletType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error {
	args := m.Called(ctx, userID, walletType, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error {
	args := m.Called(ctx, userID, walletType, amount)
	return args.Error(0)
}

// MockGameRepository is a mock implementation of repositories.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) FindBySlug(ctx context.Context, slug string) (*models.Game, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) FindByStatus(ctx context.Context, status models.GameStatus) ([]*models.Game, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) FindAll(ctx context.Context) ([]*models.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) Update(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.GameStatus, publishedAt time.Time) error {
	args := m.Called(ctx, id, from, to, publishedAt)
	return args.Error(0)
}

func (m *MockGameRepository) IncrementTicketsSold(ctx context.Context, id primitive.ObjectID, n int) error {
	args := m.Called(ctx, id, n)
	return args.Error(0)
}

// MockTicketRepository is a mock implementation of repositories.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByTicketID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindPendingByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Ticket, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountByGameAndNumbers(ctx context.Context, gameID primitive.ObjectID, numbers []int) (int64, error) {
	args := m.Called(ctx, gameID, numbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) MarkSettled(ctx context.Context, id primitive.ObjectID, status models.TicketStatus, winAmount money.Amount, matchCount int, drawID primitive.ObjectID, checkedAt time.Time) error {
	args := m.Called(ctx, id, status, winAmount, matchCount, drawID, checkedAt)
	return args.Error(0)
}

// MockDrawRepository is a mock implementation of repositories.DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Draw, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) FindLatestByGame(ctx context.Context, gameID primitive.ObjectID) (*models.Draw, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) NextDrawNumber(ctx context.Context, gameID primitive.ObjectID) (int, error) {
	args := m.Called(ctx, gameID)
	return args.Int(0), args.Error(1)
}

func (m *MockDrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

// MockWinnerRepository is a mock implementation of repositories.WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	args := m.Called(ctx, winner)
	return args.Error(0)
}

func (m *MockWinnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Winner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Winner), args.Error(1)
}

func (m *MockWinnerRepository) FindByTicketID(ctx context.Context, ticketID primitive.ObjectID) (*models.Winner, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Winner), args.Error(1)
}

func (m *MockWinnerRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Winner, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Winner), args.Error(1)
}

func (m *MockWinnerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Winner), args.Error(1)
}

func (m *MockWinnerRepository) MarkClaimed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockWinnerRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, taxWithheld money.Amount, method, reference string, at time.Time) error {
	args := m.Called(ctx, id, taxWithheld, method, reference, at)
	return args.Error(0)
}

// MockGameFinanceRepository is a mock implementation of repositories.GameFinanceRepository
type MockGameFinanceRepository struct {
	mock.Mock
}

func (m *MockGameFinanceRepository) Create(ctx context.Context, finance *models.GameFinance) error {
	args := m.Called(ctx, finance)
	return args.Error(0)
}

func (m *MockGameFinanceRepository) FindByGame(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameFinance), args.Error(1)
}

func (m *MockGameFinanceRepository) ApplySale(ctx context.Context, gameID primitive.ObjectID, sale, fee, profit money.Amount, at time.Time) error {
	args := m.Called(ctx, gameID, sale, fee, profit, at)
	return args.Error(0)
}

func (m *MockGameFinanceRepository) ApplyPrizePayout(ctx context.Context, gameID primitive.ObjectID, amount money.Amount) error {
	args := m.Called(ctx, gameID, amount)
	return args.Error(0)
}

func (m *MockGameFinanceRepository) SetPrizePaid(ctx context.Context, gameID primitive.ObjectID, pool money.Amount, at time.Time) error {
	args := m.Called(ctx, gameID, pool, at)
	return args.Error(0)
}

func (m *MockGameFinanceRepository) SetFeesSettled(ctx context.Context, gameID primitive.ObjectID) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

func (m *MockGameFinanceRepository) SetProfitPaid(ctx context.Context, gameID primitive.ObjectID, at time.Time) error {
	args := m.Called(ctx, gameID, at)
	return args.Error(0)
}

func (m *MockGameFinanceRepository) SetSettled(ctx context.Context, gameID primitive.ObjectID, at time.Time) error {
	args := m.Called(ctx, gameID, at)
	return args.Error(0)
}

func (m *MockGameFinanceRepository) Replace(ctx context.Context, finance *models.GameFinance) error {
	args := m.Called(ctx, finance)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of repositories.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*models.Payment, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindCompletedByGameAndType(ctx context.Context, gameID primitive.ObjectID, paymentType models.PaymentType) ([]*models.Payment, error) {
	args := m.Called(ctx, gameID, paymentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockCompanyRepository is a mock implementation of repositories.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context) ([]*models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}
