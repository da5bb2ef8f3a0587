package repositories

import (
	"context"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TxRunner executes a function inside one storage transaction. Every
// repository call made with the context passed to fn is committed or
// rolled back as a single atomic unit. pkg/mongodb.Client implements it.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// ApplyPurchaseStats atomically adds to totalSpent and bumps
	// ticketsPurchased.
	ApplyPurchaseStats(ctx context.Context, userID primitive.ObjectID, spent money.Amount) error
	// ApplyWinStats atomically adds to totalWon.
	ApplyWinStats(ctx context.Context, userID primitive.ObjectID, won money.Amount) error
}

// WalletRepository defines the interface for wallet data operations
type WalletRepository interface {
	// EnsureWallet finds the (user, type) wallet, creating it with a zero
	// balance when absent. Safe under concurrent first access: the unique
	// index resolves the race and the loser re-reads.
	EnsureWallet(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error)
	FindByUserAndType(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Wallet, error)
	// Debit atomically decreases the balance of an active wallet, matching
	// only when balance >= amount. Returns ErrNoMatch when the conditional
	// update filtered out (missing, inactive, or insufficient balance).
	Debit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error
	// Credit atomically increases the balance of an active wallet.
	Credit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error
}

// CompanyRepository defines the interface for company data operations
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	FindAll(ctx context.Context) ([]*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

// GameRepository defines the interface for game data operations
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	FindBySlug(ctx context.Context, slug string) (*models.Game, error)
	FindByStatus(ctx context.Context, status models.GameStatus) ([]*models.Game, error)
	FindAll(ctx context.Context) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	// TransitionStatus compare-and-sets the status, matching only
	// documents still in from. Returns ErrNoMatch when another writer got
	// there first.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.GameStatus, publishedAt time.Time) error
	// IncrementTicketsSold atomically bumps the monotone sales counter.
	IncrementTicketsSold(ctx context.Context, id primitive.ObjectID, n int) error
}

// TicketRepository defines the interface for ticket data operations
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	FindByTicketID(ctx context.Context, ticketID string) (*models.Ticket, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error)
	FindPendingByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Ticket, error)
	// CountByGameAndNumbers counts tickets of the game holding any of the
	// given numbers. Refunded tickets do not free their numbers.
	CountByGameAndNumbers(ctx context.Context, gameID primitive.ObjectID, numbers []int) (int64, error)
	// MarkSettled writes the settlement outcome of one ticket.
	MarkSettled(ctx context.Context, id primitive.ObjectID, status models.TicketStatus, winAmount money.Amount, matchCount int, drawID primitive.ObjectID, checkedAt time.Time) error
}

// DrawRepository defines the interface for draw data operations
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	FindByGame(ctx context.Context, gameID primitive.ObjectID) ([]*models.Draw, error)
	FindLatestByGame(ctx context.Context, gameID primitive.ObjectID) (*models.Draw, error)
	// NextDrawNumber returns 1 + the highest draw number of the game, 1
	// when the game has no draws yet.
	NextDrawNumber(ctx context.Context, gameID primitive.ObjectID) (int, error)
	Update(ctx context.Context, draw *models.Draw) error
}

// WinnerRepository defines the interface for winner data operations
type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Winner, error)
	FindByTicketID(ctx context.Context, ticketID primitive.ObjectID) (*models.Winner, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Winner, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error)
	// MarkClaimed flips the one-way claimed flag, matching only an
	// unclaimed winner.
	MarkClaimed(ctx context.Context, id primitive.ObjectID, at time.Time) error
	// MarkPaid writes the payout details and flips the one-way paid
	// flag, matching only a claimed, unpaid winner.
	MarkPaid(ctx context.Context, id primitive.ObjectID, taxWithheld money.Amount, method, reference string, at time.Time) error
}

// GameFinanceRepository defines the interface for game finance
// aggregate operations. Mutating methods are server-side atomic adds,
// never read-modify-write.
type GameFinanceRepository interface {
	Create(ctx context.Context, finance *models.GameFinance) error
	FindByGame(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error)
	// ApplySale atomically adds one sale to the aggregates.
	ApplySale(ctx context.Context, gameID primitive.ObjectID, sale, fee, profit money.Amount, at time.Time) error
	// ApplyPrizePayout atomically adds to prizePaidOut and subtracts from
	// prizeRemaining.
	ApplyPrizePayout(ctx context.Context, gameID primitive.ObjectID, amount money.Amount) error
	// SetPrizePaid flips the one-way prizePaid flag, matching only
	// documents where it is still false, and records the final pool.
	SetPrizePaid(ctx context.Context, gameID primitive.ObjectID, pool money.Amount, at time.Time) error
	SetFeesSettled(ctx context.Context, gameID primitive.ObjectID) error
	SetProfitPaid(ctx context.Context, gameID primitive.ObjectID, at time.Time) error
	// SetSettled flips settled, matching only documents with all three
	// component flags already true.
	SetSettled(ctx context.Context, gameID primitive.ObjectID, at time.Time) error
	// Replace overwrites the whole aggregate; used by reconciliation.
	Replace(ctx context.Context, finance *models.GameFinance) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*models.Payment, error)
	// FindCompletedByGameAndType lists completed payments of a game for
	// one transaction type; feeds reconciliation.
	FindCompletedByGameAndType(ctx context.Context, gameID primitive.ObjectID, paymentType models.PaymentType) ([]*models.Payment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error
}
