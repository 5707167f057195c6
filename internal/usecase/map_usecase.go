package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/streetsmart-service/internal/config"
	"github.com/streetsmart-service/internal/domain"
	"go.uber.org/zap"
)

const (
	osmTileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	osmAttribution     = "&copy; OpenStreetMap contributors"
	mapillaryViewerURL = "https://www.mapillary.com/app/?pKey="
)

var (
	municipalPopup = template.Must(template.New("municipal").Option("missingkey=zero").Parse(
		`<b>SR #{{.sr_number}}</b><br>Status: {{.status}}<br>Type: {{.type}}<br>Address: {{.address}}`))

	userRequestPopup = template.Must(template.New("user").Option("missingkey=zero").Parse(
		`<b>{{.name}}</b><br/>{{.description}}<br/>Severity: {{.severity}}<br/>Upvotes: {{.rating}}` +
			`<br/><button class="upvote" data-id="{{.id}}">Upvote</button>`))

	streetImagePopup = template.Must(template.New("street").Option("missingkey=zero").Parse(
		`<b>Street image {{.id}}</b><br/><a href="{{.viewer_url}}" target="_blank" rel="noopener">Open in Mapillary</a>`))

	selectionPopup = template.Must(template.New("selection").Option("missingkey=zero").Parse(
		`Selected location<br/>{{.lat}}, {{.lon}}`))
)

// renderPopup: ошибка шаблона даёт пустую подсказку, а не сбой карты
func renderPopup(tpl *template.Template, data map[string]string) string {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// ComposeInput - всё, из чего собирается карта
type ComposeInput struct {
	BaseLayers   []domain.TileLayer
	Municipal    []domain.MunicipalServiceRequest
	UserRequests []domain.RepairRequest
	StreetImages []domain.StreetImagePoint
	Selection    *domain.Point
	Center       *domain.Point
	Zoom         *int
}

// MapUseCase собирает слои карты
type MapUseCase struct {
	center        domain.Point
	zoom          int
	baseLayers    []domain.TileLayer
	imageryLayers []domain.TileLayer

	requests *RepairRequestUseCase
	feed     *FeedUseCase
	imagery  *StreetImageryUseCase
	sessions *SessionUseCase
	logger   *zap.Logger
}

func NewMapUseCase(
	cfg *config.MapConfig,
	requests *RepairRequestUseCase,
	feed *FeedUseCase,
	imagery *StreetImageryUseCase,
	sessions *SessionUseCase,
	logger *zap.Logger,
) *MapUseCase {
	return &MapUseCase{
		center:        domain.Point{Lat: cfg.CenterLat, Lon: cfg.CenterLon},
		zoom:          cfg.Zoom,
		baseLayers:    BaseLayers(cfg),
		imageryLayers: ImageryLayers(cfg),
		requests:      requests,
		feed:          feed,
		imagery:       imagery,
		sessions:      sessions,
		logger:        logger,
	}
}

// BaseLayers - взаимоисключающие подложки, первая активна
func BaseLayers(cfg *config.MapConfig) []domain.TileLayer {
	return []domain.TileLayer{
		{
			Name:        domain.LayerOpenStreetMap,
			URL:         osmTileURL,
			Attribution: osmAttribution,
			Active:      true,
			MaxZoom:     19,
		},
		{
			Name:        domain.LayerEsriSatellite,
			URL:         cfg.SatelliteURL,
			Attribution: cfg.SatelliteAttribution,
			MaxZoom:     19,
		},
	}
}

// ImageryLayers - дополнительные слои спутниковых снимков поверх подложки
func ImageryLayers(cfg *config.MapConfig) []domain.TileLayer {
	layers := make([]domain.TileLayer, 0, len(cfg.ImageryLayers))
	for _, l := range cfg.ImageryLayers {
		layers = append(layers, domain.TileLayer{
			Name:    l.Name,
			URL:     l.URL,
			Overlay: true,
		})
	}
	return layers
}

// Compose - чистая функция входа: одинаковый вход даёт одинаковые слои и маркеры
func (uc *MapUseCase) Compose(in ComposeInput) *domain.MapDocument {
	doc := &domain.MapDocument{
		Center:        uc.center,
		Zoom:          uc.zoom,
		BaseLayers:    in.BaseLayers,
		ImageryLayers: uc.imageryLayers,
	}
	if doc.BaseLayers == nil {
		doc.BaseLayers = uc.baseLayers
	}
	if in.Center != nil {
		doc.Center = *in.Center
	}
	if in.Zoom != nil {
		doc.Zoom = *in.Zoom
	}

	doc.Overlays = []domain.OverlayLayer{
		municipalLayer(in.Municipal),
		userRequestsLayer(in.UserRequests),
		streetImagesLayer(in.StreetImages),
	}
	if in.Selection != nil {
		doc.Overlays = append(doc.Overlays, selectionLayer(*in.Selection))
	}
	return doc
}

// Dashboard собирает карту из всех источников с состоянием сессии.
// Сбои необязательных источников попадают в Warnings.
func (uc *MapUseCase) Dashboard(ctx context.Context, sessionID string) (*domain.MapDocument, error) {
	in := ComposeInput{}

	var state *domain.SelectionState
	if sessionID != "" {
		s, err := uc.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		state = s
		if p, ok := state.Selection(); ok {
			in.Selection = &p
		}
		in.Center = state.MapCenter
		in.Zoom = state.MapZoom
	}

	var warnings []string

	feed := uc.feed.Get(ctx)
	in.Municipal = feed.Requests
	if feed.Warning != "" {
		warnings = append(warnings, feed.Warning)
	}

	in.UserRequests = uc.requests.List(ctx)

	images, err := uc.imagery.FetchDefault(ctx)
	if err != nil {
		warnings = append(warnings, "Street imagery is unavailable right now")
	}
	in.StreetImages = images

	doc := uc.Compose(in)
	doc.Warnings = warnings
	if state != nil {
		doc.SessionID = state.SessionID
		doc.ViewerImageID = state.ViewerImageID
	}

	uc.logger.Debug("Dashboard composed",
		zap.String("session_id", sessionID),
		zap.Int("municipal", len(in.Municipal)),
		zap.Int("user_requests", len(in.UserRequests)),
		zap.Int("street_images", len(in.StreetImages)))
	return doc, nil
}

func municipalLayer(requests []domain.MunicipalServiceRequest) domain.OverlayLayer {
	layer := domain.OverlayLayer{
		Name:    domain.LayerOpenPotholes,
		Visible: true,
		Markers: make([]domain.Marker, 0, len(requests)),
	}
	for i, r := range requests {
		id := r.SRNumber
		if id == "" {
			id = "sr-" + strconv.Itoa(i)
		}
		layer.Markers = append(layer.Markers, domain.Marker{
			ID:      id,
			Lat:     r.Lat,
			Lon:     r.Lon,
			Style:   domain.MarkerCircle,
			Color:   "red",
			Radius:  6,
			Tooltip: "SR #" + r.SRNumber,
			Popup: renderPopup(municipalPopup, map[string]string{
				"sr_number": r.SRNumber,
				"status":    r.Status,
				"type":      r.TypeDescription,
				"address":   r.Address,
			}),
		})
	}
	return layer
}

func userRequestsLayer(requests []domain.RepairRequest) domain.OverlayLayer {
	layer := domain.OverlayLayer{
		Name:    domain.LayerUserRequests,
		Visible: true,
		Markers: make([]domain.Marker, 0, len(requests)),
	}
	for _, r := range requests {
		layer.Markers = append(layer.Markers, domain.Marker{
			ID:      r.ID,
			Lat:     r.Lat,
			Lon:     r.Lon,
			Style:   domain.MarkerIcon,
			Icon:    "wrench",
			Color:   "blue",
			Tooltip: string(r.Severity),
			Popup: renderPopup(userRequestPopup, map[string]string{
				"id":          r.ID,
				"name":        r.Name,
				"description": r.Description,
				"severity":    string(r.Severity),
				"rating":      strconv.Itoa(r.Rating),
			}),
		})
	}
	return layer
}

func streetImagesLayer(points []domain.StreetImagePoint) domain.OverlayLayer {
	layer := domain.OverlayLayer{
		Name:    domain.LayerStreetImages,
		Visible: false,
		Markers: make([]domain.Marker, 0, len(points)),
	}
	for _, p := range points {
		layer.Markers = append(layer.Markers, domain.Marker{
			ID:      p.ID,
			Lat:     p.Lat,
			Lon:     p.Lon,
			Style:   domain.MarkerIcon,
			Icon:    "camera",
			Color:   "green",
			ImageID: p.ID,
			Popup: renderPopup(streetImagePopup, map[string]string{
				"id":         p.ID,
				"viewer_url": mapillaryViewerURL + p.ID,
			}),
		})
	}
	return layer
}

func selectionLayer(p domain.Point) domain.OverlayLayer {
	return domain.OverlayLayer{
		Name:    domain.LayerSelectedPoint,
		Visible: true,
		Markers: []domain.Marker{{
			ID:      "selected",
			Lat:     p.Lat,
			Lon:     p.Lon,
			Style:   domain.MarkerIcon,
			Icon:    "map-marker",
			Color:   "orange",
			Tooltip: "Selected location",
			Popup: renderPopup(selectionPopup, map[string]string{
				"lat": fmt.Sprintf("%.6f", p.Lat),
				"lon": fmt.Sprintf("%.6f", p.Lon),
			}),
		}},
	}
}
