package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contract-claims-api/config"
	"contract-claims-api/models"
	"contract-claims-api/services"
)

// UploadDocument attaches a supporting document to an unprocessed claim owned
// by the caller.
func UploadDocument(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil || claimID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	// Check if claim exists and belongs to user
	var claim models.Claim
	if err := config.DB.Where("claim_id = ? AND user_id = ?", claimID, userID).
		First(&claim).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	// Documents can only be added while the claim is awaiting review.
	if claim.CurrentStatusID != models.StatusSubmitted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot upload documents to processed claims"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	uploadSvc := services.NewFileUploadService()
	if !uploadSvc.IsValidFile(file) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type or size not allowed"})
		return
	}

	storedPath, err := uploadSvc.SaveFile(c, file, "claim_"+strconv.Itoa(claim.ClaimID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	document := models.SupportingDocument{
		ClaimID:    claim.ClaimID,
		FileName:   file.Filename,
		FilePath:   storedPath,
		UploadDate: time.Now(),
	}
	if err := config.DB.Create(&document).Error; err != nil {
		// Remove the stored file so disk and database stay in step.
		os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file info"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document uploaded successfully",
		"document": document,
	})
}

// GetClaimDocuments lists the documents attached to a claim.
func GetClaimDocuments(c *gin.Context) {
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
	if err := config.DB.First(&claim, "claim_id = ?", claimID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}
	if claim.UserID != userID && !isReviewer(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var documents []models.SupportingDocument
	if err := config.DB.Where("claim_id = ?", claimID).
		Order("upload_date ASC").
		Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// DownloadDocument streams a stored supporting document.
func DownloadDocument(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	documentID, err := strconv.Atoi(c.Param("document_id"))
	if err != nil || documentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}

	var document models.SupportingDocument
	if err := config.DB.Preload("Claim").
		First(&document, "document_id = ?", documentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if document.Claim.UserID != userID && !isReviewer(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if _, err := os.Stat(document.FilePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File no longer exists on disk"})
		return
	}

	c.FileAttachment(document.FilePath, document.FileName)
}
