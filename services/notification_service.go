package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"contract-claims-api/config"
	"contract-claims-api/models"
)

// NotificationService records in-app notifications and sends best-effort
// emails. Nothing here ever fails the caller: a claim that was approved stays
// approved even if the mail relay is down.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyClaimAction tells the claim owner that action happened to their claim
// (e.g. "auto-approved", "rejected", "processed for payment"). Must be called
// only after the owning transaction has committed.
func (n *NotificationService) NotifyClaimAction(claim *models.Claim, action string) {
	title := fmt.Sprintf("Claim #%d %s", claim.ClaimID, action)
	message := fmt.Sprintf("Your claim #%d for %d hours (R%s) has been %s.",
		claim.ClaimID, claim.HoursWorked, claim.TotalAmount.StringFixed(2), action)

	claimID := claim.ClaimID
	notification := models.Notification{
		UserID:         claim.UserID,
		Title:          title,
		Message:        message,
		Type:           "info",
		RelatedClaimID: &claimID,
		CreateAt:       time.Now(),
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("notification: failed to record claim %d %s: %v", claim.ClaimID, action, err)
	}

	userID := claim.UserID
	go func() {
		var owner models.User
		if err := n.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&owner).Error; err != nil {
			log.Printf("notification: owner lookup for claim %d failed: %v", claimID, err)
			return
		}
		if owner.Email == "" {
			return
		}
		html := fmt.Sprintf("<p>Dear %s,</p><p>%s</p><p>Contract Monthly Claim System</p>",
			owner.FullName(), message)
		sendMailSafe([]string{owner.Email}, title, html)
	}()

	log.Printf("Notification: Claim %d %s for user %d", claim.ClaimID, action, claim.UserID)
}

// sendMailSafe delivers mail without letting SMTP problems surface to callers.
func sendMailSafe(to []string, subject, html string) {
	if err := config.SendMail(to, subject, html); err != nil {
		log.Printf("sendMailSafe: %v", err)
	}
}
