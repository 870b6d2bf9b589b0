package dto

import (
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/models"
)

// ActiveExhibitionResponse is the public view of the active exhibition. None
// is set, with a zero id and empty name, when nothing is active.
type ActiveExhibitionResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	None      bool       `json:"none,omitempty"`
}

func ToActiveExhibitionResponse(e *models.Exhibition) ActiveExhibitionResponse {
	if e == nil {
		return ActiveExhibitionResponse{None: true}
	}
	createdAt := e.CreatedAt
	return ActiveExhibitionResponse{ID: e.ID, Name: e.Name, CreatedAt: &createdAt}
}

type CheckinResponse struct {
	ID           uint      `json:"id"`
	ExhibitionID uint      `json:"exhibitionId"`
	CheckinTime  time.Time `json:"checkinTime"`
}

func ToCheckinResponse(c *models.CheckinRecord) CheckinResponse {
	return CheckinResponse{ID: c.ID, ExhibitionID: c.ExhibitionID, CheckinTime: c.CheckinTime}
}

// AdminCheckinResponse is a check-in row of the admin list.
type AdminCheckinResponse struct {
	ID             uint      `json:"id"`
	ExhibitionName string    `json:"exhibitionName"`
	CompanyName    string    `json:"companyName"`
	SignerName     string    `json:"signerName"`
	Phone          string    `json:"phone"`
	Location       string    `json:"location"`
	CheckinTime    time.Time `json:"checkinTime"`
	DrawResult     string    `json:"drawResult"`
}

func ToAdminCheckinResponses(rows []models.CheckinWithDraw) []AdminCheckinResponse {
	out := make([]AdminCheckinResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, AdminCheckinResponse{
			ID:             r.ID,
			ExhibitionName: r.ExhibitionName,
			CompanyName:    r.CompanyName,
			SignerName:     r.SignerName,
			Phone:          r.Phone,
			Location:       r.Location,
			CheckinTime:    r.CheckinTime,
			DrawResult:     r.DrawResult,
		})
	}
	return out
}

type OKResponse struct {
	OK      bool `json:"ok"`
	Deleted bool `json:"deleted,omitempty"`
}

type LoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}
