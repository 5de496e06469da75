package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopgraph/shopgraph/internal/api/http/middleware"
	"github.com/shopgraph/shopgraph/internal/catalog"
)

// Handler exposes the catalog reads over HTTP.
type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

// Stats returns node counts per entity type.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		log.Printf("Stats query failed (request %s): %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Products lists the catalog with category names.
func (h *Handler) Products(c *gin.Context) {
	products, err := h.service.Products(c.Request.Context())
	if err != nil {
		log.Printf("Product listing query failed (request %s): %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CustomerOrders returns one customer's order history.
func (h *Handler) CustomerOrders(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id must be an integer"})
		return
	}

	orders, err := h.service.CustomerOrders(c.Request.Context(), customerID)
	if err != nil {
		log.Printf("Customer orders query failed (request %s): %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
