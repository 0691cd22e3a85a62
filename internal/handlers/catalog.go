package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"decorize-backend/internal/decor"
)

// CatalogHandler serves the static style and place registries the
// client renders its pickers from. No auth, no database.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) GetStyles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"styles": decor.Styles})
}

func (h *CatalogHandler) GetPlaces(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"places": decor.Places})
}
