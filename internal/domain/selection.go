package domain

import "time"

// SelectionState - состояние интерактивной сессии пользователя.
//
// NoSelection -> (клик по карте) -> Selected(lat, lon) -> (успешная отправка) -> NoSelection.
// Клик всегда перезаписывает выбор; viewport меняется независимо от выбора.
type SelectionState struct {
	SessionID     string    `json:"session_id"`
	SelectedLat   *float64  `json:"selected_lat"`
	SelectedLon   *float64  `json:"selected_lon"`
	MapCenter     *Point    `json:"map_center,omitempty"`
	MapZoom       *int      `json:"map_zoom,omitempty"`
	ViewerImageID string    `json:"viewer_image_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasSelection - выбрана ли точка для заявки
func (s *SelectionState) HasSelection() bool {
	return s.SelectedLat != nil && s.SelectedLon != nil
}

// Selection возвращает выбранную точку
func (s *SelectionState) Selection() (Point, bool) {
	if !s.HasSelection() {
		return Point{}, false
	}
	return Point{Lat: *s.SelectedLat, Lon: *s.SelectedLon}, true
}

// Select перезаписывает выбранную точку
func (s *SelectionState) Select(p Point) {
	lat, lon := p.Lat, p.Lon
	s.SelectedLat = &lat
	s.SelectedLon = &lon
}

// ClearSelection возвращает сессию в NoSelection
func (s *SelectionState) ClearSelection() {
	s.SelectedLat = nil
	s.SelectedLon = nil
}

// SetViewport сохраняет центр и зум карты; nil значения не трогают текущие
func (s *SelectionState) SetViewport(center *Point, zoom *int) {
	if center != nil {
		c := *center
		s.MapCenter = &c
	}
	if zoom != nil {
		z := *zoom
		s.MapZoom = &z
	}
}
