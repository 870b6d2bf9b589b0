package models

import (
	"time"

	"gorm.io/gorm"
)

// CheckinRecord is append-only; nothing updates or deletes a single row.
type CheckinRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExhibitionID uint      `gorm:"not null;index" json:"exhibition_id"`
	CompanyName  string    `gorm:"not null" json:"company_name"`
	SignerName   string    `gorm:"not null" json:"signer_name"`
	Phone        string    `gorm:"type:varchar(11);not null;index" json:"phone"`
	Location     string    `gorm:"not null" json:"location"`
	CheckinTime  time.Time `gorm:"not null" json:"checkin_time"`
}

func (CheckinRecord) TableName() string {
	return "checkins"
}

// BeforeCreate rejects rows that slipped past request validation.
func (c *CheckinRecord) BeforeCreate(tx *gorm.DB) error {
	if c.CompanyName == "" || c.SignerName == "" || c.Location == "" {
		return ErrMissingField
	}
	if !ValidPhone(c.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// CheckinHistory is a check-in joined with its exhibition name.
type CheckinHistory struct {
	CheckinRecord
	ExhibitionName string `json:"exhibition_name"`
}

// CheckinWithDraw is a check-in joined with the first draw result of its phone
// in the same exhibition. DrawResult is empty when the phone has not drawn.
type CheckinWithDraw struct {
	CheckinRecord
	ExhibitionName string `json:"exhibition_name"`
	DrawResult     string `json:"draw_result"`
}
