package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-claims-api/services"
)

// GetClaimStatuses returns the claim status reference table. Served from the
// in-process cache.
func GetClaimStatuses(c *gin.Context) {
	statuses, err := services.GetStatuses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statuses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}
