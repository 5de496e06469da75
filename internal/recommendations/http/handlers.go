package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopgraph/shopgraph/internal/api/http/middleware"
	"github.com/shopgraph/shopgraph/internal/recommendations"
)

// Handler exposes the four ranking strategies over HTTP. It is a thin
// pass-through: parse the id and limit, call the provider, render JSON.
type Handler struct {
	provider recommendations.Provider
}

func NewHandler(provider recommendations.Provider) *Handler {
	return &Handler{provider: provider}
}

// Collaborative recommends products bought by customers similar to this one.
func (h *Handler) Collaborative(c *gin.Context) {
	customerID, ok := pathID(c, "customer_id")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	recs, err := h.provider.Collaborative(c.Request.Context(), customerID, limit)
	if err != nil {
		log.Printf("Collaborative recommendation query failed (request %s): %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "recommendations": recs})
}

// ContentBased recommends unpurchased products from the customer's categories.
func (h *Handler) ContentBased(c *gin.Context) {
	customerID, ok := pathID(c, "customer_id")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	recs, err := h.provider.ContentBased(c.Request.Context(), customerID, limit)
	if err != nil {
		log.Printf("Content-based recommendation query failed (request %s): %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "recommendations": recs})
}

// Popular returns the best sellers across all customers.
func (h *Handler) Popular(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	recs, err := h.provider.Popular(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Popularity recommendation query failed (request %s): %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// FrequentlyBoughtTogether returns products sharing orders with the given one.
func (h *Handler) FrequentlyBoughtTogether(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	recs, err := h.provider.FrequentlyBoughtTogether(c.Request.Context(), productID, limit)
	if err != nil {
		log.Printf("Frequently-bought-together query failed (request %s): %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_id": productID, "recommendations": recs})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return id, true
}

// queryLimit reads the optional limit parameter; absent means the
// engine's default.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return limit, true
}
