package handler

import (
	"embed"
	"encoding/json"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/pkg/utils"
	"github.com/streetsmart-service/internal/usecase"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const recentPreviewLimit = 10

// DashboardPage - данные для шаблона страницы карты
type DashboardPage struct {
	Title      string
	SessionID  string
	Document   template.JS
	Recent     []domain.RepairRequest
	Warnings   []string
	Severities []domain.Severity
}

// MapHandler - собранная карта: JSON для клиентов API и HTML-страница на Leaflet
type MapHandler struct {
	mapUC      *usecase.MapUseCase
	sessionUC  *usecase.SessionUseCase
	requestUC  *usecase.RepairRequestUseCase
	templates  *template.Template
	cookieName string
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewMapHandler - шаблоны встроены в бинарник, ошибка означает битый шаблон
func NewMapHandler(
	mapUC *usecase.MapUseCase,
	sessionUC *usecase.SessionUseCase,
	requestUC *usecase.RepairRequestUseCase,
	cookieName string,
	sessionTTL time.Duration,
	logger *zap.Logger,
) (*MapHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &MapHandler{
		mapUC:      mapUC,
		sessionUC:  sessionUC,
		requestUC:  requestUC,
		templates:  tmpl,
		cookieName: cookieName,
		sessionTTL: sessionTTL,
		logger:     logger,
	}, nil
}

// Map godoc
// @Summary Документ карты
// @Description Базовые слои, оверлеи (городские обращения, заявки пользователей, уличные снимки) и выбранная точка сессии. Сбои необязательных источников попадают в warnings.
// @Tags Map
// @Produce json
// @Param session_id query string false "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=domain.MapDocument}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/map [get]
func (h *MapHandler) Map(c *fiber.Ctx) error {
	doc, err := h.mapUC.Dashboard(c.UserContext(), c.Query("session_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, doc, &utils.Meta{Warnings: doc.Warnings})
}

// Dashboard - HTML страница; сессия хранится в cookie, неизвестная сессия заменяется новой
func (h *MapHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	state, err := h.sessionUC.GetOrStart(ctx, c.Cookies(h.cookieName))
	if err != nil {
		return utils.SendError(c, err)
	}
	h.setSessionCookie(c, state.SessionID)

	doc, err := h.mapUC.Dashboard(ctx, state.SessionID)
	if err != nil {
		return utils.SendError(c, err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		h.logger.Error("Failed to encode map document", zap.Error(err))
		return utils.SendError(c, err)
	}

	page := DashboardPage{
		Title:      "StreetSmart - Pothole Dashboard",
		SessionID:  state.SessionID,
		Document:   template.JS(data),
		Recent:     h.requestUC.ListRecent(ctx, recentPreviewLimit),
		Warnings:   doc.Warnings,
		Severities: domain.Severities,
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return h.templates.ExecuteTemplate(c.Response().BodyWriter(), "dashboard.html", page)
}

func (h *MapHandler) setSessionCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
