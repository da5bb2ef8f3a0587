package services

import (
	"context"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService defines the interface for registration and login
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// WalletService defines the interface for wallet accounting
type WalletService interface {
	// EnsureWallet returns the (user, type) wallet, creating it with a
	// zero balance on first access.
	EnsureWallet(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType) (*models.Wallet, error)
	GetWallets(ctx context.Context, userID primitive.ObjectID) ([]*models.Wallet, error)

	// Debit removes amount from the wallet. Returns ErrInsufficientFunds
	// when the balance cannot cover it, ErrWalletInactive when the
	// wallet is deactivated.
	Debit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error
	// Credit adds amount to the wallet, creating it if missing.
	Credit(ctx context.Context, userID primitive.ObjectID, walletType models.WalletType, amount money.Amount) error

	// Deposit credits the main wallet and writes a completed deposit
	// payment, atomically.
	Deposit(ctx context.Context, userID primitive.ObjectID, amount money.Amount) (*models.Payment, error)
	// Withdraw debits the main wallet and writes a completed withdrawal
	// payment, atomically.
	Withdraw(ctx context.Context, userID primitive.ObjectID, amount money.Amount) (*models.Payment, error)
}

// TicketService defines the interface for ticket issuance
type TicketService interface {
	// PurchaseTicket issues a ticket for the given numbers, debiting the
	// buyer's main wallet and updating the game aggregates as one atomic
	// unit.
	PurchaseTicket(ctx context.Context, userID, gameID primitive.ObjectID, numbers []int) (*models.Ticket, error)
	GetTicket(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	GetTicketByPublicID(ctx context.Context, ticketID string) (*models.Ticket, error)
	GetUserTickets(ctx context.Context, userID primitive.ObjectID) ([]*models.Ticket, error)
}

// FinanceService defines the interface for the per-game financial
// aggregate.
type FinanceService interface {
	// RecordSale folds a completed ticket sale into the game aggregates.
	// Callers run it inside the purchase transaction.
	RecordSale(ctx context.Context, game *models.Game, amount money.Amount, at time.Time) error
	// RecordPrizePayout adds a payout to prize_paid_out and flips the
	// prizePaid flag once the pool is exhausted.
	RecordPrizePayout(ctx context.Context, gameID primitive.ObjectID, amount money.Amount) error
	// SettleFees flips the one-way feesSettled flag.
	SettleFees(ctx context.Context, gameID primitive.ObjectID) error
	// PayProfit flips the one-way profitPaid flag.
	PayProfit(ctx context.Context, gameID primitive.ObjectID) error
	// CheckSettlement flips settled when every component flag holds.
	// Returns the refreshed record either way.
	CheckSettlement(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error)
	GetFinance(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error)
	// Reconcile rebuilds the aggregate from the payment history and
	// overwrites the incremental record.
	Reconcile(ctx context.Context, gameID primitive.ObjectID) (*models.GameFinance, error)
}

// SettlementResult is the outcome of a game settlement
type SettlementResult struct {
	Draw             *models.Draw     `json:"draw"`
	Winners          []*models.Winner `json:"winners"`
	AlreadyProcessed bool             `json:"alreadyProcessed"`
}

// TicketCheckResult is the outcome of a single-ticket verification
type TicketCheckResult struct {
	Ticket     *models.Ticket `json:"ticket"`
	Won        bool           `json:"won"`
	MatchCount int            `json:"matchCount"`
	WinAmount  money.Amount   `json:"winAmount"`
}

// DrawService defines the interface for draw execution and settlement
type DrawService interface {
	// SettleGame draws winning numbers for the game, settles every
	// pending ticket, pays winners and closes the game, all in one
	// transaction. A second call reports AlreadyProcessed.
	SettleGame(ctx context.Context, gameID, staffUserID primitive.ObjectID) (*SettlementResult, error)
	// CheckTicket re-verifies one ticket against its draw's winning
	// numbers. It never moves money.
	CheckTicket(ctx context.Context, ticketID primitive.ObjectID) (*TicketCheckResult, error)
	GetDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	GetGameDraws(ctx context.Context, gameID primitive.ObjectID) ([]*models.Draw, error)
}

// WinnerService defines the interface for the winner lifecycle
type WinnerService interface {
	// ClaimPrize flips the one-way claimed flag and adds the prize to
	// the user's lifetime winnings.
	ClaimPrize(ctx context.Context, winnerID, userID primitive.ObjectID) (*models.Winner, error)
	// RecordPayout marks a claimed prize as paid out through an external
	// channel, recording the net-of-tax payment.
	RecordPayout(ctx context.Context, winnerID primitive.ObjectID, method, reference string, taxWithheld money.Amount) (*models.Winner, error)
	GetDrawWinners(ctx context.Context, drawID primitive.ObjectID) ([]*models.Winner, error)
	GetUserWinners(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error)
}

// CreateGameRequest is the payload for creating a game
type CreateGameRequest struct {
	Name               string             `json:"name" binding:"required"`
	Description        string             `json:"description"`
	CompanyID          primitive.ObjectID `json:"companyId" binding:"required"`
	TicketPrice        money.Amount       `json:"ticketPrice" binding:"required"`
	PrizeAmount        money.Amount       `json:"prizeAmount" binding:"required"`
	PlatformFeePercent money.Amount       `json:"platformFeePercent"`
	NumberRange        int                `json:"numberRange" binding:"required,min=1"`
}

// GameService defines the interface for the game lifecycle
type GameService interface {
	// CreateGame creates a draft game together with its finance record.
	CreateGame(ctx context.Context, req *CreateGameRequest) (*models.Game, error)
	// PublishGame moves a draft or pending game to active, stamping
	// publishedAt on first activation.
	PublishGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	// CancelGame cancels a game that has not finished.
	CancelGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	GetGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	GetGameBySlug(ctx context.Context, slug string) (*models.Game, error)
	GetGames(ctx context.Context, status models.GameStatus) ([]*models.Game, error)
}
