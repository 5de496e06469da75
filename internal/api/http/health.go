package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Graph     string    `json:"graph,omitempty"`
}

// GraphPinger is the connectivity probe the handler needs from the
// graph client.
type GraphPinger interface {
	VerifyConnectivity(ctx context.Context) error
}

// HealthHandler reports per-store connectivity: the relational source
// and the graph store are probed independently so a dashboard can tell
// which side is hurting.
type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	graph       GraphPinger
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, graph GraphPinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		graph:       graph,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"

	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "down"
			status = "degraded"
		} else {
			dbStatus = "up"
		}
	}

	graphStatus := "disabled"
	if h.graph != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.graph.VerifyConnectivity(pingCtx); err != nil {
			graphStatus = "down"
			status = "degraded"
		} else {
			graphStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        dbStatus,
		Graph:     graphStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
