package models

import (
	"time"

	"gorm.io/gorm"
)

// NoWinResult is stored as the result of every losing draw.
const NoWinResult = "未中奖"

// DrawRecord is append-only. The composite unique index allows at most one
// draw per phone per exhibition.
type DrawRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExhibitionID uint      `gorm:"not null;uniqueIndex:idx_draw_records_exhibition_phone,priority:1" json:"exhibition_id"`
	Phone        string    `gorm:"type:varchar(11);not null;uniqueIndex:idx_draw_records_exhibition_phone,priority:2" json:"phone"`
	DrawTime     time.Time `gorm:"not null;index" json:"draw_time"`
	Result       string    `gorm:"not null" json:"result"`
	IsWin        bool      `gorm:"not null" json:"is_win"`
}

func (DrawRecord) TableName() string {
	return "draw_records"
}

func (d *DrawRecord) BeforeCreate(tx *gorm.DB) error {
	if !ValidPhone(d.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// DrawOutcome is what a caller learns from a single draw.
type DrawOutcome struct {
	IsWin    bool      `json:"isWin"`
	Result   string    `json:"result"`
	DrawTime time.Time `json:"drawTime"`
}

// DrawPreview is a draw record with a best-effort display name taken from the
// earliest check-in of the same phone.
type DrawPreview struct {
	Phone    string    `json:"phone"`
	Name     string    `json:"name"`
	Result   string    `json:"result"`
	DrawTime time.Time `json:"draw_time"`
}
