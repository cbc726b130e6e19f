package router

import (
	"github.com/gin-gonic/gin"

	"claimos/internal/handler"
	"claimos/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	intakeH *handler.IntakeHandler,
	docH *handler.DocumentHandler,
	claimH *handler.ClaimHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Intake sessions
	sessions := v1.Group("/sessions")
	sessions.POST("/:id/messages", intakeH.SendMessage)
	sessions.GET("/:id/state", intakeH.GetState)
	sessions.DELETE("/:id/state", intakeH.Reset)
	sessions.POST("/:id/documents", docH.Upload)
	sessions.GET("/:id/documents", docH.ListBySession)

	// Documents
	documents := v1.Group("/documents")
	documents.GET("/:id", docH.GetByID)
	documents.GET("/:id/download", docH.GetDownloadURL)

	// Claims
	claims := v1.Group("/claims")
	claims.GET("", claimH.List)
	claims.GET("/export", claimH.Export)
	claims.GET("/:id", claimH.GetByID)

	return r
}
