package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim lifecycle status IDs as seeded in the claim_statuses reference table.
const (
	StatusSubmitted             = 1
	StatusApprovedByCoordinator = 2
	StatusApprovedByManager     = 3
	StatusRejected              = 4
	StatusPaid                  = 5
)

// Claim is a lecturer's monthly hours-worked submission. TotalAmount is fixed
// at submission time (hourly rate x hours) and never recomputed afterwards.
type Claim struct {
	ClaimID         int             `gorm:"primaryKey;column:claim_id" json:"claim_id"`
	UserID          int             `gorm:"column:user_id" json:"user_id"`
	HoursWorked     int             `gorm:"column:hours_worked" json:"hours_worked"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount" json:"total_amount"`
	SubmissionDate  time.Time       `gorm:"column:submission_date" json:"submission_date"`
	CurrentStatusID int             `gorm:"column:current_status_id" json:"current_status_id"`
	Notes           *string         `gorm:"column:notes" json:"notes,omitempty"`
	CreateAt        *time.Time      `gorm:"column:create_at" json:"create_at,omitempty"`
	UpdateAt        *time.Time      `gorm:"column:update_at" json:"update_at,omitempty"`

	// Relations
	User                User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CurrentStatus       ClaimStatus          `gorm:"foreignKey:CurrentStatusID" json:"current_status,omitempty"`
	SupportingDocuments []SupportingDocument `gorm:"foreignKey:ClaimID" json:"supporting_documents,omitempty"`
	StatusHistory       []ClaimStatusHistory `gorm:"foreignKey:ClaimID" json:"status_history,omitempty"`
}

// ClaimStatus is a fixed 5-row reference table, read-only at runtime.
type ClaimStatus struct {
	StatusID    int     `gorm:"primaryKey;column:status_id" json:"status_id"`
	StatusName  string  `gorm:"column:status_name" json:"status_name"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
}

// TableName overrides
func (Claim) TableName() string {
	return "claims"
}

func (ClaimStatus) TableName() string {
	return "claim_statuses"
}
