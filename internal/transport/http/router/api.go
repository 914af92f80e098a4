package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dashboard-bff/internal/core/config"
	"dashboard-bff/internal/supabase"
	"dashboard-bff/internal/transport/http/handler"
	mdw "dashboard-bff/internal/transport/http/middleware"
)

// NewAPIEngine assembles the gin engine: protection middleware in front,
// then the entity routes, all sharing one upstream client.
func NewAPIEngine(l *zap.Logger, store *supabase.Client, cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(6<<20), // headroom over the 5 MiB asset cap
		mdw.Timeout(30*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// The dashboard frontend is served from arbitrary preview domains, so
	// CORS stays permissive, as the deployed original.
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "API Manager Dashboard Backend",
			"status":  "online",
			"name":    cfg.App.Name,
			"env":     cfg.App.Env,
		})
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cities := handler.NewCityHandler(store)
	r.GET("/cities", cities.List)
	r.GET("/cities/:id", cities.Get)
	r.POST("/cities", cities.Create)
	r.PUT("/cities/:id", cities.Update)
	r.DELETE("/cities/:id", cities.Delete)

	categories := handler.NewCategoryHandler(store)
	r.GET("/categories", categories.List)
	r.GET("/categories/:id", categories.Get)
	r.POST("/categories", categories.Create)
	r.PUT("/categories/:id", categories.Update)
	r.DELETE("/categories/:id", categories.Delete)

	services := handler.NewServiceHandler(store, cfg.Supabase.LogoBucket)
	r.GET("/services", services.List)
	r.GET("/services/:id", services.Get)
	r.POST("/services", services.Create)
	r.PUT("/services/:id", services.Update)
	r.DELETE("/services/:id", services.Delete)
	r.POST("/services/:id/logo", services.UploadLogo)
	r.DELETE("/services/:id/logo", services.DeleteLogo)

	users := handler.NewUserHandler(store, cfg.Supabase.AvatarBucket)
	r.GET("/users", users.List)
	r.GET("/users/:id", users.Get)
	r.POST("/users", users.Create)
	r.PUT("/users/:id", users.Update)
	r.DELETE("/users/:id", users.Delete)
	r.POST("/users/:id/avatar", users.UploadAvatar)
	r.DELETE("/users/:id/avatar", users.DeleteAvatar)

	return r
}
