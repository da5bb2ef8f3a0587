package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure GameServiceImpl implements GameService
var _ GameService = (*GameServiceImpl)(nil)

// GameServiceImpl handles the game lifecycle
type GameServiceImpl struct {
	gameRepo    repositories.GameRepository
	companyRepo repositories.CompanyRepository
	financeRepo repositories.GameFinanceRepository
	txRunner    repositories.TxRunner
}

// NewGameService creates a new GameServiceImpl
func NewGameService(
	gameRepo repositories.GameRepository,
	companyRepo repositories.CompanyRepository,
	financeRepo repositories.GameFinanceRepository,
	txRunner repositories.TxRunner,
) *GameServiceImpl {
	return &GameServiceImpl{
		gameRepo:    gameRepo,
		companyRepo: companyRepo,
		financeRepo: financeRepo,
		txRunner:    txRunner,
	}
}

// CreateGame creates a draft game together with its finance record. The
// slug is derived from the name once and never changes.
func (s *GameServiceImpl) CreateGame(ctx context.Context, req *CreateGameRequest) (*models.Game, error) {
	if _, err := s.companyRepo.FindByID(ctx, req.CompanyID); err != nil {
		return nil, fmt.Errorf("failed to load organizing company: %w", err)
	}
	if !req.TicketPrice.IsPositive() || !req.PrizeAmount.IsPositive() {
		return nil, errors.New("ticket price and prize amount must be positive")
	}
	if req.PlatformFeePercent.IsNegative() {
		return nil, errors.New("platform fee percent must not be negative")
	}

	game := &models.Game{
		Name:               req.Name,
		Slug:               models.Slugify(req.Name),
		Description:        req.Description,
		CompanyID:          req.CompanyID,
		TicketPrice:        req.TicketPrice,
		PrizeAmount:        req.PrizeAmount,
		PlatformFeePercent: req.PlatformFeePercent,
		NumberRange:        req.NumberRange,
		Status:             models.GameStatusDraft,
	}

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.gameRepo.Create(ctx, game); err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}
		finance := &models.GameFinance{
			GameID:         game.ID,
			TotalPrizePool: game.PrizeAmount,
			PrizeRemaining: game.PrizeAmount,
		}
		if err := s.financeRepo.Create(ctx, finance); err != nil {
			return fmt.Errorf("failed to create finance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Game created", "gameId", game.ID.Hex(), "slug", game.Slug, "company", req.CompanyID.Hex())
	return game, nil
}

// PublishGame moves a draft or pending game to active. publishedAt is
// stamped on the transition and never rewritten.
func (s *GameServiceImpl) PublishGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if !game.CanTransitionTo(models.GameStatusActive) {
		return nil, ErrInvalidTransition
	}

	err = s.gameRepo.TransitionStatus(ctx, id, game.Status, models.GameStatusActive, time.Now())
	if errors.Is(err, repositories.ErrNoMatch) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("failed to publish game: %w", err)
	}

	slog.Info("Game published", "gameId", id.Hex(), "slug", game.Slug)
	return s.gameRepo.FindByID(ctx, id)
}

// CancelGame cancels a game that has not reached a terminal state
func (s *GameServiceImpl) CancelGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if !game.CanTransitionTo(models.GameStatusCanceled) {
		return nil, ErrInvalidTransition
	}

	err = s.gameRepo.TransitionStatus(ctx, id, game.Status, models.GameStatusCanceled, time.Time{})
	if errors.Is(err, repositories.ErrNoMatch) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel game: %w", err)
	}

	slog.Info("Game canceled", "gameId", id.Hex(), "slug", game.Slug)
	return s.gameRepo.FindByID(ctx, id)
}

// GetGame finds a game by ID
func (s *GameServiceImpl) GetGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	return s.gameRepo.FindByID(ctx, id)
}

// GetGameBySlug finds a game by its URL slug
func (s *GameServiceImpl) GetGameBySlug(ctx context.Context, slug string) (*models.Game, error) {
	return s.gameRepo.FindBySlug(ctx, slug)
}

// GetGames lists games, optionally filtered by status
func (s *GameServiceImpl) GetGames(ctx context.Context, status models.GameStatus) ([]*models.Game, error) {
	if status == "" {
		return s.gameRepo.FindAll(ctx)
	}
	return s.gameRepo.FindByStatus(ctx, status)
}
