package domain

// Имена слоёв карты
const (
	LayerOpenPotholes  = "Open Pothole Requests"
	LayerUserRequests  = "User Repair Requests"
	LayerStreetImages  = "Street Images"
	LayerSelectedPoint = "Selected Location"
	LayerOpenStreetMap = "OpenStreetMap"
	LayerEsriSatellite = "Esri Satellite"
)

// MarkerStyle - способ отрисовки точки
type MarkerStyle string

const (
	MarkerCircle MarkerStyle = "circle"
	MarkerIcon   MarkerStyle = "icon"
)

// TileLayer - растровый слой тайлов
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Overlay     bool   `json:"overlay"`
	Active      bool   `json:"active"`
	MaxZoom     int    `json:"max_zoom,omitempty"`
}

// Marker - точка оверлея с всплывающей подсказкой
type Marker struct {
	ID      string      `json:"id"`
	Lat     float64     `json:"lat"`
	Lon     float64     `json:"lon"`
	Style   MarkerStyle `json:"style"`
	Icon    string      `json:"icon,omitempty"`
	Color   string      `json:"color"`
	Radius  int         `json:"radius,omitempty"`
	Tooltip string      `json:"tooltip,omitempty"`
	Popup   string      `json:"popup,omitempty"`
	ImageID string      `json:"image_id,omitempty"`
}

// OverlayLayer - переключаемый слой маркеров
type OverlayLayer struct {
	Name    string   `json:"name"`
	Visible bool     `json:"visible"`
	Markers []Marker `json:"markers"`
}

// MapDocument - собранная карта: базовые слои взаимоисключающие,
// оверлеи переключаются независимо и рисуются в порядке следования.
type MapDocument struct {
	Center        Point          `json:"center"`
	Zoom          int            `json:"zoom"`
	BaseLayers    []TileLayer    `json:"base_layers"`
	ImageryLayers []TileLayer    `json:"imagery_layers"`
	Overlays      []OverlayLayer `json:"overlays"`
	SessionID     string         `json:"session_id,omitempty"`
	ViewerImageID string         `json:"viewer_image_id,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// Overlay ищет оверлей по имени
func (d *MapDocument) Overlay(name string) (*OverlayLayer, bool) {
	for i := range d.Overlays {
		if d.Overlays[i].Name == name {
			return &d.Overlays[i], true
		}
	}
	return nil, false
}
