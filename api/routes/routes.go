package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/config"
	"github.com/winningticket/lottery-backend/internal/handlers"
	"github.com/winningticket/lottery-backend/internal/middleware"
)

// Handlers bundles the HTTP handlers wired in main
type Handlers struct {
	Auth    *handlers.AuthHandler
	Wallet  *handlers.WalletHandler
	Ticket  *handlers.TicketHandler
	Game    *handlers.GameHandler
	Draw    *handlers.DrawHandler
	Winner  *handlers.WinnerHandler
	Finance *handlers.FinanceHandler
	Company *handlers.CompanyHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	// Create router
	router := gin.Default()

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// Game browsing is public
		public.GET("/games", h.Game.List)
		public.GET("/games/:id", h.Game.GetByID)
		public.GET("/games/slug/:slug", h.Game.GetBySlug)
		public.GET("/games/:id/draws", h.Draw.ListByGame)
		public.GET("/draws/:id", h.Draw.GetByID)
		public.GET("/draws/:id/winners", h.Winner.ListByDraw)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.GET("/auth/me", h.Auth.Me)

		// Wallet routes
		wallets := protected.Group("/wallets")
		{
			wallets.GET("", h.Wallet.GetWallets)
			wallets.POST("/deposit", h.Wallet.Deposit)
			wallets.POST("/withdraw", h.Wallet.Withdraw)
		}

		// Ticket routes
		tickets := protected.Group("/tickets")
		{
			tickets.POST("", h.Ticket.Purchase)
			tickets.GET("", h.Ticket.GetMine)
			tickets.GET("/:id", h.Ticket.GetByID)
			tickets.GET("/:id/check", h.Ticket.Check)
		}

		// Winner routes
		winners := protected.Group("/winners")
		{
			winners.GET("", h.Winner.ListMine)
			winners.POST("/:id/claim", h.Winner.Claim)
		}
	}

	// Staff routes
	staff := router.Group("/api/v1")
	staff.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireStaff())
	{
		staff.POST("/games", h.Game.Create)
		staff.POST("/games/:id/publish", h.Game.Publish)
		staff.POST("/games/:id/cancel", h.Game.Cancel)
		staff.POST("/games/:id/settle", h.Draw.Settle)

		staff.GET("/games/:id/finance", h.Finance.Get)
		staff.POST("/games/:id/finance/settle-fees", h.Finance.SettleFees)
		staff.POST("/games/:id/finance/pay-profit", h.Finance.PayProfit)
		staff.POST("/games/:id/finance/reconcile", h.Finance.Reconcile)

		staff.POST("/winners/:id/payout", h.Winner.RecordPayout)

		staff.POST("/companies", h.Company.Create)
		staff.GET("/companies", h.Company.List)
		staff.GET("/companies/:id", h.Company.GetByID)
	}

	return router
}
