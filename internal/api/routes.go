package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"songbook-backend-go/internal/core"
	"songbook-backend-go/internal/middleware"
)

// SetupRoutes wires all endpoints onto the router. Global middleware
// (logging, recovery, CORS) is applied to the engine before this is called.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	verifier middleware.TokenVerifier,
	userService core.UserService,
	billingService core.BillingService,
	authService core.AuthService,
	playlistService core.PlaylistService,
	songService core.SongService,
) {
	authMW := middleware.NewAuthMiddleware(verifier, logger)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	billingHandler := NewBillingHandler(billingService, logger)
	playlistHandler := NewPlaylistHandler(playlistService)
	songHandler := NewSongHandler(songService)

	apiGroup := router.Group("/api")
	{
		// Magic-link sign-in. Public: possession of the mailbox is the proof.
		apiGroup.POST("/auth/send-sign-in-link", authHandler.SendSignInLink)

		// Billing endpoints.
		apiGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
		apiGroup.POST("/create-portal-session", authMW.VerifyToken(), billingHandler.CreatePortalSession)
		apiGroup.GET("/check-subscription", authMW.VerifyToken(), billingHandler.CheckSubscription)
		apiGroup.POST("/cancel-subscription", authMW.VerifyToken(), billingHandler.CancelSubscription)

		// Hosted-checkout return leg. Public: the browser lands here from the
		// provider; the session id is the capability.
		apiGroup.GET("/subscription-success", billingHandler.SubscriptionSuccess)

		// Provider webhook. Public: authenticated by signature, not token.
		apiGroup.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)

		// User profile.
		apiGroup.GET("/user-profile", authMW.VerifyToken(), userHandler.GetProfile)
		apiGroup.PATCH("/user-profile", authMW.VerifyToken(), userHandler.UpdateProfile)

		// Playlists. All operations require authentication; per-playlist
		// access is checked in the service layer.
		playlists := apiGroup.Group("/playlists", authMW.VerifyToken())
		{
			playlists.POST("", playlistHandler.Create)
			playlists.GET("", playlistHandler.List)
			playlists.GET("/:playlistId", playlistHandler.Get)
			playlists.PATCH("/:playlistId", playlistHandler.Update)
			playlists.DELETE("/:playlistId", playlistHandler.Delete)

			playlists.POST("/:playlistId/songs", playlistHandler.AddSong)
			playlists.PUT("/:playlistId/songs", playlistHandler.Reorder)
			playlists.DELETE("/:playlistId/songs/:songId", playlistHandler.RemoveSong)
			playlists.POST("/:playlistId/share", playlistHandler.Share)
		}

		// Song catalog reads.
		songs := apiGroup.Group("/songs", authMW.VerifyToken())
		{
			songs.GET("", songHandler.List)
			songs.GET("/:songId", songHandler.Get)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api and /health")
}
