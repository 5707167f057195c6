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

// SessionHandler - состояние выбора на карте: клик, viewport, отправка формы, просмотр снимка
type SessionHandler struct {
	sessionUC *usecase.SessionUseCase
	logger    *zap.Logger
}

func NewSessionHandler(sessionUC *usecase.SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// Start godoc
// @Summary Новая сессия
// @Description Создаёт сессию без выбранной точки
// @Tags Sessions
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	state, err := h.sessionUC.Start(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, dto.NewSessionResponse(state), nil)
}

// Get godoc
// @Summary Состояние сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	state, err := h.sessionUC.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewSessionResponse(state), nil)
}

// Click godoc
// @Summary Клик по карте
// @Description Запоминает выбранную точку; повторный клик перезаписывает предыдущий
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.ClickRequest true "Координаты клика"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/click [post]
func (h *SessionHandler) Click(c *fiber.Ctx) error {
	var req dto.ClickRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.Click(c.UserContext(), c.Params("id"), *req.Lat, *req.Lon)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewSessionResponse(state), nil)
}

// Viewport godoc
// @Summary Центр и зум карты
// @Description Сохраняет viewport между перерисовками; выбранная точка не меняется
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.ViewportRequest true "Центр и зум"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/viewport [post]
func (h *SessionHandler) Viewport(c *fiber.Ctx) error {
	var req dto.ViewportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	var center *domain.Point
	if req.Lat != nil && req.Lon != nil {
		center = &domain.Point{Lat: *req.Lat, Lon: *req.Lon}
	}

	state, err := h.sessionUC.UpdateViewport(c.UserContext(), c.Params("id"), center, req.Zoom)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewSessionResponse(state), nil)
}

// Submit godoc
// @Summary Отправка заявки из выбранной точки
// @Description Создаёт заявку в выбранной точке и сбрасывает выбор. Без выбора - 400 MISSING_SELECTION.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SubmitRequest true "Поля формы"
// @Success 201 {object} utils.SuccessResponse{data=dto.SubmitResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	created, state, err := h.sessionUC.Submit(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, dto.SubmitResponse{
		Request: created,
		Session: dto.NewSessionResponse(state),
	}, nil)
}

// OpenViewer godoc
// @Summary Открыть просмотр снимка
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.ViewerRequest true "ID снимка Mapillary"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/viewer [post]
func (h *SessionHandler) OpenViewer(c *fiber.Ctx) error {
	var req dto.ViewerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	state, err := h.sessionUC.OpenViewer(c.UserContext(), c.Params("id"), req.ImageID.String())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewSessionResponse(state), nil)
}

// CloseViewer godoc
// @Summary Вернуться к карте
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/viewer [delete]
func (h *SessionHandler) CloseViewer(c *fiber.Ctx) error {
	state, err := h.sessionUC.CloseViewer(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewSessionResponse(state), nil)
}
