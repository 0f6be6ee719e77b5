package models

import "time"

// SupportingDocument is an uploaded file attached to a claim. Rows are
// immutable once created and cascade with their claim.
type SupportingDocument struct {
	DocumentID int       `gorm:"primaryKey;column:document_id" json:"document_id"`
	ClaimID    int       `gorm:"column:claim_id" json:"claim_id"`
	FileName   string    `gorm:"column:file_name" json:"file_name"`
	FilePath   string    `gorm:"column:file_path" json:"file_path"`
	UploadDate time.Time `gorm:"column:upload_date" json:"upload_date"`

	// Relations
	Claim Claim `gorm:"foreignKey:ClaimID" json:"claim,omitempty"`
}

// TableName specifies the table for SupportingDocument.
func (SupportingDocument) TableName() string {
	return "supporting_documents"
}
