package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/GoSim-25-26J-441/tee-designer/internal/api/http"
	"github.com/GoSim-25-26J-441/tee-designer/internal/api/http/middleware"
	designerhttp "github.com/GoSim-25-26J-441/tee-designer/internal/designer/http"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/service"
)

type RouterDeps struct {
	ServiceName   string
	Version       string
	CORSOrigins   []string
	Store         httpapi.Pinger
	Sessions      *service.Manager
	MaxUploadSize int64
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Session-Id", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	designer := api.Group("/designer")
	designerHandler := designerhttp.New(dep.Sessions, dep.MaxUploadSize)
	designerHandler.Register(designer)

	return r
}
