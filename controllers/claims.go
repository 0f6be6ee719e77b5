package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contract-claims-api/config"
	"contract-claims-api/models"
	"contract-claims-api/services"
	"contract-claims-api/utils"
)

// CreateClaim handles a lecturer's monthly claim submission: the claim row,
// any uploaded supporting documents and the initial history entry are created
// in one transaction. TotalAmount is locked in from the lecturer's current
// hourly rate.
func CreateClaim(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	hoursWorked, err := strconv.Atoi(c.PostForm("hours_worked"))
	if err != nil || hoursWorked <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter valid hours worked"})
		return
	}

	notes := utils.SanitizeInput(c.PostForm("notes"))

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	form, _ := c.MultipartForm()
	var files []*multipart.FileHeader
	uploadSvc := services.NewFileUploadService()
	if form != nil {
		for _, file := range form.File["supporting_documents"] {
			if !uploadSvc.IsValidFile(file) {
				continue // invalid uploads are skipped, not fatal
			}
			files = append(files, file)
		}
	}

	now := time.Now()
	claim := models.Claim{
		UserID:          userID,
		HoursWorked:     hoursWorked,
		TotalAmount:     user.HourlyRate.Mul(decimal.NewFromInt(int64(hoursWorked))),
		SubmissionDate:  now,
		CurrentStatusID: models.StatusSubmitted,
		CreateAt:        &now,
	}
	if notes != "" {
		claim.Notes = &notes
	}

	var storedPaths []string
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}

		for _, file := range files {
			storedPath, err := uploadSvc.SaveFile(c, file, "claim_"+strconv.Itoa(claim.ClaimID))
			if err != nil {
				return err
			}
			storedPaths = append(storedPaths, storedPath)
			document := models.SupportingDocument{
				ClaimID:    claim.ClaimID,
				FileName:   file.Filename,
				FilePath:   storedPath,
				UploadDate: now,
			}
			if err := tx.Create(&document).Error; err != nil {
				return err
			}
		}

		note := "Claim submitted by lecturer"
		history := models.ClaimStatusHistory{
			ClaimID:         claim.ClaimID,
			StatusID:        models.StatusSubmitted,
			ChangedByUserID: userID,
			ChangeDate:      now,
			Notes:           &note,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		// the rows rolled back, so the files written this request go too
		uploadSvc.RemoveStored(storedPaths)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit claim"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Claim submitted successfully",
		"claim":   claim,
	})
}

// GetMyClaims returns the calling lecturer's claims, newest first.
func GetMyClaims(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	var claims []models.Claim
	if err := config.DB.Preload("CurrentStatus").Preload("SupportingDocuments").
		Where("user_id = ?", userID).
		Order("submission_date DESC").
		Find(&claims).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// GetClaim returns one claim with its documents and full status history.
// Lecturers see only their own claims; reviewer roles see all.
func GetClaim(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil || claimID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	var claim models.Claim
	if err := config.DB.Preload("User").Preload("CurrentStatus").
		Preload("SupportingDocuments").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("change_date ASC")
		}).
		Preload("StatusHistory.Status").
		Preload("StatusHistory.ChangedByUser").
		First(&claim, "claim_id = ?", claimID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	if claim.UserID != userID && !isReviewer(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim})
}
