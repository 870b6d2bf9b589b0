package models

import (
	"time"

	"gorm.io/datatypes"
)

const SettingKeyDraw = "draw"

// Prize is one configured reward. A nil Qty means unlimited stock.
type Prize struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Qty    *int    `json:"qty"`
}

// DrawSettings is the process-wide draw configuration.
type DrawSettings struct {
	WinRate float64 `json:"winRate"`
	Prizes  []Prize `json:"prizes"`
}

// Setting is a key/value row; the "draw" key holds DrawSettings.
type Setting struct {
	Key       string                           `gorm:"primaryKey;size:64"`
	Value     datatypes.JSONType[DrawSettings] `gorm:"not null"`
	UpdatedAt time.Time
}

func (Setting) TableName() string {
	return "settings"
}
