package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"contract-claims-api/config"
	"contract-claims-api/models"
)

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		}
	}
	return 0, false
}

// isReviewer reports whether the role can see claims it does not own.
func isReviewer(roleID int) bool {
	return roleID == models.RoleCoordinator || roleID == models.RoleManager || roleID == models.RoleHR
}
