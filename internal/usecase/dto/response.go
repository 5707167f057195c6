package dto

import (
	"time"

	"github.com/streetsmart-service/internal/domain"
)

// SessionResponse - состояние сессии для клиента
type SessionResponse struct {
	SessionID     string        `json:"session_id"`
	Selected      *domain.Point `json:"selected"`
	MapCenter     *domain.Point `json:"map_center,omitempty"`
	MapZoom       *int          `json:"map_zoom,omitempty"`
	ViewerImageID string        `json:"viewer_image_id,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func NewSessionResponse(state *domain.SelectionState) *SessionResponse {
	resp := &SessionResponse{
		SessionID:     state.SessionID,
		MapCenter:     state.MapCenter,
		MapZoom:       state.MapZoom,
		ViewerImageID: state.ViewerImageID,
		UpdatedAt:     state.UpdatedAt,
	}
	if p, ok := state.Selection(); ok {
		resp.Selected = &p
	}
	return resp
}

// SubmitResponse - результат отправки заявки из сессии
type SubmitResponse struct {
	Request *domain.RepairRequest `json:"request"`
	Session *SessionResponse      `json:"session"`
}

// HealthResponse - состояние сервиса и зависимостей
type HealthResponse struct {
	Status       string            `json:"status"`
	Time         time.Time         `json:"time"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
