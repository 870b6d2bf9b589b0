package dto

import "github.com/Eursukkul/expo-draw-service/internal/service"

type CheckinRequest struct {
	CompanyName string `json:"companyName"`
	SignerName  string `json:"signerName"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
}

func (r CheckinRequest) ToInput() service.CheckinInput {
	return service.CheckinInput{
		CompanyName: r.CompanyName,
		SignerName:  r.SignerName,
		Phone:       r.Phone,
		Location:    r.Location,
	}
}

type DrawRequest struct {
	Phone string `json:"phone"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateExhibitionRequest struct {
	Name string `json:"name"`
}

// PrizeRequest keeps weight and qty untyped; admins submit numbers, numeric
// strings and nulls, and the settings service coerces them.
type PrizeRequest struct {
	Name   string `json:"name"`
	Weight any    `json:"weight"`
	Qty    any    `json:"qty"`
}

type DrawSettingsRequest struct {
	WinRate any            `json:"winRate"`
	Prizes  []PrizeRequest `json:"prizes"`
}

func (r DrawSettingsRequest) ToUpdate() service.SettingsUpdate {
	update := service.SettingsUpdate{WinRate: r.WinRate}
	for _, p := range r.Prizes {
		update.Prizes = append(update.Prizes, service.PrizeUpdate{Name: p.Name, Weight: p.Weight, Qty: p.Qty})
	}
	return update
}
