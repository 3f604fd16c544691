package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_issue_tracker/internal/config"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
	"github.com/sirupsen/logrus"
)

// Services сервисы, обслуживаемые HTTP слоем
type Services struct {
	Issues        service.IssueService
	Users         service.UserService
	Notifications service.NotificationService
	Analytics     service.AnalyticsService
	Alerts        service.AlertService
}

type Handler struct {
	issueService        service.IssueService
	userService         service.UserService
	notificationService service.NotificationService
	analyticsService    service.AnalyticsService
	alertService        service.AlertService
	tokens              TokenParser
	stream              EventStream
	rateLimiter         gin.HandlerFunc
	logger              *logrus.Logger
	validate            *validator.Validate
	cfg                 *config.Config
}

// NewHandler создает Handler. Без redisClient лимит подачи заявок не применяется,
// без stream поток событий отвечает 503.
func NewHandler(services Services, tokens TokenParser, stream EventStream, redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *Handler {
	h := &Handler{
		issueService:        services.Issues,
		userService:         services.Users,
		notificationService: services.Notifications,
		analyticsService:    services.Analytics,
		alertService:        services.Alerts,
		tokens:              tokens,
		stream:              stream,
		logger:              logger,
		validate:            validator.New(),
		cfg:                 cfg,
	}
	if redisClient != nil {
		h.rateLimiter = IssueRateLimiter(redisClient, cfg.IssueRateLimit, logger)
	} else {
		h.rateLimiter = func(c *gin.Context) { c.Next() }
	}
	return h
}

// errorStatuses соответствие доменных ошибок HTTP статусам, проверяется по порядку
var errorStatuses = []struct {
	err    error
	status int
}{
	{models.ErrValidation, http.StatusBadRequest},
	{models.ErrMediaRequired, http.StatusBadRequest},
	{models.ErrUnauthorized, http.StatusUnauthorized},
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrDuplicateVote, http.StatusConflict},
	{models.ErrConflict, http.StatusConflict},
	{models.ErrInvalidState, http.StatusUnprocessableEntity},
}

// respondError отвечает статусом по доменной ошибке; остальные ошибки - 500 без подробностей
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		log.WithError(err).Warn("Request rejected by service")
		c.JSON(e.status, gin.H{"error": publicMessage(err, e.err)})
		return
	}
	log.WithError(err).Error("Request failed in service")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// publicMessage отрезает префиксы слоев, оставляя текст доменной ошибки и детали после него
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

// bindJSON разбирает и валидирует тело запроса; при ошибке ответ уже отправлен
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindQuery(input); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func issueIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue ID"})
		return uuid.Nil, false
	}
	return id, true
}

// pageParams читает page и page_size; границы нормализует сервис
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(models.DefaultPageSize)))
	return page, pageSize
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
