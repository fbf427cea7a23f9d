// internal/middleware/cors.go
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cacho-medina/luxbuy-back/internal/config"
)

func CORS(cfg *config.Config) gin.HandlerFunc {
	allowOrigins := []string{"*"}
	allowCredentials := false
	if cfg.Environment == "production" && cfg.Frontend.BaseURL != "" {
		allowOrigins = []string{cfg.Frontend.BaseURL}
		allowCredentials = true
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	})
}
