package mapillary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/streetsmart-service/internal/config"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"github.com/streetsmart-service/internal/pkg/utils"
	"go.uber.org/zap"
)

const imageFields = "id,geometry"

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewMapillaryClient создает клиент Mapillary Graph API
func NewMapillaryClient(cfg *config.MapillaryConfig, logger *zap.Logger) repository.StreetImageryRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type imagesResponse struct {
	Data []imageItem `json:"data"`
}

type imageItem struct {
	ID       utils.FlexibleString `json:"id"`
	Geometry *struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// Images запрашивает точки снимков в bbox.
// Элементы без id или с неполными координатами пропускаются.
func (c *client) Images(ctx context.Context, bbox domain.BoundingBox, accessToken string, limit int) ([]domain.StreetImagePoint, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", imageFields)
	params.Set("bbox", bbox.String())
	params.Set("limit", strconv.Itoa(limit))

	endpoint := c.baseURL + "/images?" + params.Encode()

	c.logger.Debug("Calling Mapillary images API",
		zap.String("bbox", bbox.String()),
		zap.Int("limit", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", redactToken(err, accessToken))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Mapillary API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("mapillary API error: status %d", resp.StatusCode)
	}

	var payload imagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	points := make([]domain.StreetImagePoint, 0, len(payload.Data))
	for _, item := range payload.Data {
		if item.Geometry == nil {
			continue
		}
		if p, ok := domain.NewStreetImagePoint(string(item.ID), item.Geometry.Coordinates); ok {
			points = append(points, p)
		}
	}

	c.logger.Debug("Mapillary images received",
		zap.Int("items", len(payload.Data)),
		zap.Int("points", len(points)))
	return points, nil
}

// redactToken убирает токен из текста ошибки: url.Error содержит полный URL запроса
func redactToken(err error, token string) error {
	if token == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{Op: uerr.Op, URL: "[redacted]", Err: uerr.Err}
	}
	return err
}
