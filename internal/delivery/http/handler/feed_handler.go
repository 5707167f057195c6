package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/streetsmart-service/internal/pkg/utils"
	"github.com/streetsmart-service/internal/usecase"
	"go.uber.org/zap"
)

// FeedHandler - открытые городские обращения о ямах
type FeedHandler struct {
	feedUC *usecase.FeedUseCase
	logger *zap.Logger
}

func NewFeedHandler(feedUC *usecase.FeedUseCase, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feedUC: feedUC,
		logger: logger,
	}
}

// Potholes godoc
// @Summary Открытые обращения о ямах
// @Description Только строки со статусом OPEN и корректными координатами. Нечитаемый файл даёт пустой список и предупреждение в meta.warnings.
// @Tags Potholes
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.MunicipalServiceRequest}
// @Router /api/v1/potholes [get]
func (h *FeedHandler) Potholes(c *fiber.Ctx) error {
	result := h.feedUC.Get(c.UserContext())

	meta := &utils.Meta{Total: len(result.Requests)}
	if result.Warning != "" {
		meta.Warnings = []string{result.Warning}
	}
	return utils.SendSuccess(c, result.Requests, meta)
}
