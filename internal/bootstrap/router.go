package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/shopgraph/shopgraph/internal/api/http"
	"github.com/shopgraph/shopgraph/internal/api/http/middleware"
	"github.com/shopgraph/shopgraph/internal/catalog"
	cataloghttp "github.com/shopgraph/shopgraph/internal/catalog/http"
	"github.com/shopgraph/shopgraph/internal/recommendations"
	rechttp "github.com/shopgraph/shopgraph/internal/recommendations/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Graph       httpapi.GraphPinger
	Recs        recommendations.Provider
	Catalog     *catalog.Service
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Graph)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	rechttp.NewHandler(dep.Recs).Register(api)
	cataloghttp.NewHandler(dep.Catalog).Register(api)

	return r
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
