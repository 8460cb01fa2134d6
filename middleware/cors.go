package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/zac-t-smith/restoration-intel/config"
)

// CORS allows the dashboard origins from config. A "*" entry allows any
// origin, without credentials.
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range cfg.AllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			c.AllowAllOrigins = true
			return cors.New(c)
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		c.AllowOriginFunc = func(string) bool { return false }
		return cors.New(c)
	}
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return cors.New(c)
}

// NoStore disables caching of API responses.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}
		c.Next()
	}
}
