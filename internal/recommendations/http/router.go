package http

import "github.com/gin-gonic/gin"

// Register registers the recommendation routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/recommendations/collaborative/:customer_id", h.Collaborative)
	rg.GET("/recommendations/content/:customer_id", h.ContentBased)
	rg.GET("/recommendations/popular", h.Popular)
	rg.GET("/recommendations/frequently-bought-together/:product_id", h.FrequentlyBoughtTogether)
}
