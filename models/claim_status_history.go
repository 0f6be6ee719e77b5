package models

import "time"

// ClaimStatusHistory is the append-only audit ledger of status transitions.
// One entry is written per transition, including the initial submission; the
// newest entry for a claim always matches the claim's current status.
type ClaimStatusHistory struct {
	HistoryID       int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ClaimID         int       `gorm:"column:claim_id" json:"claim_id"`
	StatusID        int       `gorm:"column:status_id" json:"status_id"`
	ChangedByUserID int       `gorm:"column:changed_by_user_id" json:"changed_by_user_id"`
	ChangeDate      time.Time `gorm:"column:change_date" json:"change_date"`
	Notes           *string   `gorm:"column:notes" json:"notes,omitempty"`

	// Relations
	Status        ClaimStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	ChangedByUser User        `gorm:"foreignKey:ChangedByUserID" json:"changed_by_user,omitempty"`
}

// TableName specifies the table for ClaimStatusHistory.
func (ClaimStatusHistory) TableName() string {
	return "claim_status_history"
}
