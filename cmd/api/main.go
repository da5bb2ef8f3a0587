package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/winningticket/lottery-backend/api/routes"
	"github.com/winningticket/lottery-backend/internal/config"
	"github.com/winningticket/lottery-backend/internal/handlers"
	mongorepo "github.com/winningticket/lottery-backend/internal/repositories/mongodb"
	"github.com/winningticket/lottery-backend/internal/services"
	"github.com/winningticket/lottery-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT.Secret is not configured")
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// The unique indexes back the concurrency guarantees; refuse to
	// start without them.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndex()
	if err := mongorepo.EnsureIndexes(indexCtx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	walletRepo := mongorepo.NewWalletRepository(db)
	companyRepo := mongorepo.NewCompanyRepository(db)
	gameRepo := mongorepo.NewGameRepository(db)
	ticketRepo := mongorepo.NewTicketRepository(db)
	drawRepo := mongorepo.NewDrawRepository(db)
	winnerRepo := mongorepo.NewWinnerRepository(db)
	financeRepo := mongorepo.NewGameFinanceRepository(db)
	paymentRepo := mongorepo.NewPaymentRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	walletService := services.NewWalletService(walletRepo, paymentRepo, mongoClient)
	financeService := services.NewFinanceService(financeRepo, paymentRepo, gameRepo)
	ticketService := services.NewTicketService(ticketRepo, gameRepo, userRepo, paymentRepo, walletService, financeService, mongoClient)
	drawService := services.NewDrawService(drawRepo, gameRepo, ticketRepo, winnerRepo, paymentRepo, walletService, financeService, mongoClient)
	winnerService := services.NewWinnerService(winnerRepo, userRepo, paymentRepo, mongoClient)
	gameService := services.NewGameService(gameRepo, companyRepo, financeRepo, mongoClient)

	// Handlers
	h := &routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Wallet:  handlers.NewWalletHandler(walletService),
		Ticket:  handlers.NewTicketHandler(ticketService, drawService),
		Game:    handlers.NewGameHandler(gameService),
		Draw:    handlers.NewDrawHandler(drawService),
		Winner:  handlers.NewWinnerHandler(winnerService),
		Finance: handlers.NewFinanceHandler(financeService),
		Company: handlers.NewCompanyHandler(companyRepo),
	}

	router := routes.SetupRouter(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Run server in a goroutine so that it doesn't block
	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("Server exiting")
}
