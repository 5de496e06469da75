package http

import "github.com/gin-gonic/gin"

// Register registers the catalog routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
	rg.GET("/products", h.Products)
	rg.GET("/customers/:customer_id/orders", h.CustomerOrders)
}
