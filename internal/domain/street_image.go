package domain

import "math"

// StreetImagePoint - точка уличной фотографии из Mapillary
type StreetImagePoint struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewStreetImagePoint строит точку из пары [lon, lat].
// Возвращает false, если компонент меньше двух, координаты не конечны или нет id.
func NewStreetImagePoint(id string, coordinates []float64) (StreetImagePoint, bool) {
	if id == "" || len(coordinates) < 2 {
		return StreetImagePoint{}, false
	}

	lon, lat := coordinates[0], coordinates[1]
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return StreetImagePoint{}, false
	}

	return StreetImagePoint{ID: id, Lat: lat, Lon: lon}, true
}
