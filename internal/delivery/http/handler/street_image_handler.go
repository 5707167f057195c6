package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/streetsmart-service/internal/domain"
	apperrors "github.com/streetsmart-service/internal/pkg/errors"
	"github.com/streetsmart-service/internal/pkg/utils"
	"github.com/streetsmart-service/internal/pkg/validator"
	"github.com/streetsmart-service/internal/usecase"
	"github.com/streetsmart-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const streetImageryUnavailable = "Street imagery is unavailable right now"

// StreetImageHandler - точки уличных снимков Mapillary
type StreetImageHandler struct {
	imageryUC *usecase.StreetImageryUseCase
	logger    *zap.Logger
}

func NewStreetImageHandler(imageryUC *usecase.StreetImageryUseCase, logger *zap.Logger) *StreetImageHandler {
	return &StreetImageHandler{
		imageryUC: imageryUC,
		logger:    logger,
	}
}

// List godoc
// @Summary Уличные снимки в bbox
// @Description Точки снимков Mapillary. Без токена или при сбое API возвращается пустой список (сбой попадает в meta.warnings).
// @Tags StreetImages
// @Produce json
// @Param bbox query string false "min_lon,min_lat,max_lon,max_lat (по умолчанию из конфига)"
// @Param limit query int false "Максимум точек"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.StreetImagePoint}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/street-images [get]
func (h *StreetImageHandler) List(c *fiber.Ctx) error {
	var query dto.StreetImagesQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid query parameters"))
	}
	if err := validator.ValidateRequest(&query); err != nil {
		return utils.SendError(c, err)
	}

	var bbox *domain.BoundingBox
	if query.BBox != "" {
		parsed, err := domain.ParseBoundingBox(query.BBox)
		if err != nil {
			return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage(err.Error()))
		}
		bbox = &parsed
	}

	points, err := h.imageryUC.FetchBBox(c.UserContext(), bbox, query.Limit)
	meta := &utils.Meta{Total: len(points)}
	if err != nil {
		meta.Warnings = []string{streetImageryUnavailable}
	}
	return utils.SendSuccess(c, points, meta)
}
