package handler

import (
	"github.com/gofiber/fiber/v2"
	apperrors "github.com/streetsmart-service/internal/pkg/errors"
	"github.com/streetsmart-service/internal/pkg/utils"
	"github.com/streetsmart-service/internal/pkg/validator"
	"github.com/streetsmart-service/internal/usecase"
	"github.com/streetsmart-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// RepairRequestHandler - заявки на ремонт: совместимые /api/requests, /api/upvote и чтение через /api/v1
type RepairRequestHandler struct {
	requestUC *usecase.RepairRequestUseCase
	logger    *zap.Logger
}

// NewRepairRequestHandler - создание нового RepairRequestHandler
func NewRepairRequestHandler(requestUC *usecase.RepairRequestUseCase, logger *zap.Logger) *RepairRequestHandler {
	return &RepairRequestHandler{
		requestUC: requestUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Новая заявка на ремонт
// @Description Сохраняет заявку с rating = 0. id и timestamp необязательны. Ответ в конверте {status, message}.
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRepairRequestRequest true "Заявка"
// @Success 200 {object} utils.StatusResponse
// @Failure 400 {object} utils.StatusResponse
// @Failure 409 {object} utils.StatusResponse
// @Failure 500 {object} utils.StatusResponse
// @Router /api/requests [post]
func (h *RepairRequestHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRepairRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendStatusError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendStatusError(c, err)
	}

	if _, err := h.requestUC.Create(c.UserContext(), req); err != nil {
		return utils.SendStatusError(c, err)
	}

	return utils.SendStatusSuccess(c)
}

// Upvote godoc
// @Summary Голос за заявку
// @Description Увеличивает rating заявки на 1. 404, если файла заявок нет или id не найден.
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body dto.UpvoteRequest true "Идентификатор заявки"
// @Success 200 {object} utils.StatusResponse
// @Failure 400 {object} utils.StatusResponse
// @Failure 404 {object} utils.StatusResponse
// @Failure 500 {object} utils.StatusResponse
// @Router /api/upvote [post]
func (h *RepairRequestHandler) Upvote(c *fiber.Ctx) error {
	var req dto.UpvoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendStatusError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendStatusError(c, err)
	}

	if err := h.requestUC.Upvote(c.UserContext(), req.ID.String()); err != nil {
		return utils.SendStatusError(c, err)
	}

	return utils.SendStatusSuccess(c)
}

// Recent godoc
// @Summary Последние заявки
// @Description Заявки по убыванию времени создания. Ошибка чтения хранилища даёт пустой список.
// @Tags Requests
// @Produce json
// @Param limit query int false "Количество заявок" default(10)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.RepairRequest}
// @Router /api/v1/requests/recent [get]
func (h *RepairRequestHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", usecase.DefaultRecentLimit)
	requests := h.requestUC.ListRecent(c.UserContext(), limit)

	return utils.SendSuccess(c, requests, &utils.Meta{
		Total: len(requests),
		Limit: utils.ClampLimit(limit, usecase.DefaultRecentLimit, usecase.MaxRecentLimit),
	})
}

// List godoc
// @Summary Все заявки
// @Tags Requests
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.RepairRequest}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/requests [get]
func (h *RepairRequestHandler) List(c *fiber.Ctx) error {
	requests, err := h.requestUC.All(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list repair requests", zap.Error(err))
		return utils.SendError(c, apperrors.ErrInternalServer)
	}

	return utils.SendSuccess(c, requests, &utils.Meta{Total: len(requests)})
}
