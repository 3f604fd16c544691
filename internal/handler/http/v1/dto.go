package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
)

// RegisterRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"omitempty,oneof=citizen government"`
	Department string `json:"department,omitempty" validate:"required_if=Role government"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BadgeResponse значок пользователя
type BadgeResponse struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AwardedOn   time.Time `json:"awarded_on"`
}

// UserResponse DTO для ответа с профилем пользователя
// @Description DTO для ответа с профилем пользователя
type UserResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Role       string          `json:"role"`
	Department string          `json:"department,omitempty"`
	Points     int             `json:"points"`
	Badges     []BadgeResponse `json:"badges"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LoginResponse DTO с токеном доступа
// @Description DTO с токеном доступа
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// CreateIssueRequest DTO для создания заявки.
// Пустая категория определяется по тексту заявки.
// @Description DTO для создания заявки
type CreateIssueRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    string   `json:"category,omitempty"`
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	Pincode     string   `json:"pincode,omitempty"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,required"`
	VoiceNote   string   `json:"voice_note,omitempty"`
}

// UpdateStatusRequest DTO для смены статуса
// @Description DTO для смены статуса
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=submitted in-progress resolved rejected"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

// AssignIssueRequest DTO для назначения отдела и чиновника
// @Description DTO для назначения отдела и чиновника
type AssignIssueRequest struct {
	Department string `json:"department" validate:"required"`
	OfficialID string `json:"official_id,omitempty" validate:"omitempty,uuid"`
}

// ResolutionRequest DTO с подтверждением решения
// @Description DTO с подтверждением решения
type ResolutionRequest struct {
	Description string   `json:"description,omitempty" validate:"max=5000"`
	Images      []string `json:"images"`
}

// ClassifyRequest DTO для автоопределения категории
// @Description DTO для автоопределения категории
type ClassifyRequest struct {
	Text string `json:"text" validate:"required"`
}

// ClassifyResponse предложенные категория и приоритет
type ClassifyResponse struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// LocationResponse место проблемы
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Pincode   string  `json:"pincode,omitempty"`
}

// AssignmentResponse ответственные за заявку
type AssignmentResponse struct {
	Department string     `json:"department"`
	Official   *uuid.UUID `json:"official,omitempty"`
}

// StatusHistoryResponse запись журнала заявки
type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	UpdatedBy uuid.UUID `json:"updated_by"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// ResolutionResponse сведения о решении
type ResolutionResponse struct {
	ResolvedBy     uuid.UUID `json:"resolved_by"`
	ResolutionDate time.Time `json:"resolution_date"`
	Description    string    `json:"description"`
	Images         []string  `json:"images"`
}

// IssueResponse DTO для ответа с информацией о заявке
// @Description DTO для ответа с информацией о заявке
type IssueResponse struct {
	ID            uuid.UUID               `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Category      string                  `json:"category"`
	Location      LocationResponse        `json:"location"`
	Images        []string                `json:"images"`
	VoiceNote     string                  `json:"voice_note,omitempty"`
	ReportedBy    uuid.UUID               `json:"reported_by"`
	AssignedTo    AssignmentResponse      `json:"assigned_to"`
	Status        string                  `json:"status"`
	Priority      string                  `json:"priority"`
	Votes         int                     `json:"votes"`
	StatusHistory []StatusHistoryResponse `json:"status_history"`
	Resolution    *ResolutionResponse     `json:"resolution,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// IssueListResponse страница заявок
// @Description страница заявок
type IssueListResponse struct {
	Issues     []*IssueResponse  `json:"issues"`
	Pagination models.Pagination `json:"pagination"`
}

// MyIssuesResponse заявки пользователя со счетчиками по статусам
// @Description заявки пользователя со счетчиками по статусам
type MyIssuesResponse struct {
	Issues     []*IssueResponse  `json:"issues"`
	Counts     map[string]int64  `json:"counts"`
	Pagination models.Pagination `json:"pagination"`
}

// VoteResponse результат голосования
type VoteResponse struct {
	IssueID  uuid.UUID `json:"issue_id"`
	Votes    int       `json:"votes"`
	Priority string    `json:"priority"`
}

// CreateNotificationRequest DTO для системного уведомления
// @Description DTO для системного уведомления
type CreateNotificationRequest struct {
	Recipient    string `json:"recipient" validate:"required,uuid"`
	Title        string `json:"title" validate:"required,max=200"`
	Message      string `json:"message" validate:"required,max=2000"`
	Type         string `json:"type" validate:"omitempty,oneof=issue-submission status-update assignment resolution upvote alert system"`
	RelatedIssue string `json:"related_issue,omitempty" validate:"omitempty,uuid"`
}

// NotificationSelectionRequest выбор уведомлений: список ids или все
// @Description выбор уведомлений: список ids или все
type NotificationSelectionRequest struct {
	IDs []string `json:"ids,omitempty" validate:"omitempty,dive,uuid"`
	All bool     `json:"all,omitempty"`
}

// NotificationResponse DTO уведомления
type NotificationResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	Type         string     `json:"type"`
	RelatedIssue *uuid.UUID `json:"related_issue,omitempty"`
	RelatedAlert *uuid.UUID `json:"related_alert,omitempty"`
	IsRead       bool       `json:"is_read"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NotificationListResponse страница уведомлений
// @Description страница уведомлений
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unread_count"`
	Pagination    models.Pagination       `json:"pagination"`
}

// AffectedResponse количество затронутых записей
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// IssueListQuery параметры выборки заявок.
// lat и lng задаются вместе; from и to - даты YYYY-MM-DD.
type IssueListQuery struct {
	Status     string   `form:"status" validate:"omitempty,oneof=submitted in-progress resolved rejected"`
	Category   string   `form:"category" validate:"omitempty,oneof=pothole garbage streetlight water electricity sewage traffic vandalism other"`
	Priority   string   `form:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Department string   `form:"department"`
	City       string   `form:"city"`
	State      string   `form:"state"`
	Latitude   *float64 `form:"lat" validate:"omitempty,latitude"`
	Longitude  *float64 `form:"lng" validate:"omitempty,longitude"`
	Radius     float64  `form:"radius" validate:"omitempty,gt=0,lte=100000"`
	From       string   `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string   `form:"to" validate:"omitempty,datetime=2006-01-02"`
	SortBy     string   `form:"sort_by" validate:"omitempty,oneof=created_at updated_at votes"`
	Order      string   `form:"order" validate:"omitempty,oneof=asc desc"`
	Page       int      `form:"page"`
	PageSize   int      `form:"page_size"`
}

// CreateAlertRequest DTO для оповещения о чрезвычайной ситуации.
// radius_meters по умолчанию 5000, start_time по умолчанию текущее время.
// @Description DTO для оповещения о чрезвычайной ситуации
type CreateAlertRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"required,max=5000"`
	Type         string     `json:"type" validate:"required,oneof=flood earthquake heavy-rain cyclone heatwave other"`
	Severity     string     `json:"severity" validate:"required,oneof=low medium high critical"`
	Latitude     *float64   `json:"latitude" validate:"required,latitude"`
	Longitude    *float64   `json:"longitude" validate:"required,longitude"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	RadiusMeters int        `json:"radius_meters,omitempty" validate:"omitempty,gt=0,lte=500000"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Source       string     `json:"source,omitempty" validate:"max=100"`
}

// UpdateAlertStatusRequest DTO для включения и снятия оповещения
// @Description DTO для включения и снятия оповещения
type UpdateAlertStatusRequest struct {
	IsActive *bool      `json:"is_active" validate:"required"`
	EndTime  *time.Time `json:"end_time,omitempty"`
}

// AlertListQuery параметры поиска оповещений; lat и lng задаются вместе
type AlertListQuery struct {
	Latitude  *float64 `form:"lat" validate:"omitempty,latitude"`
	Longitude *float64 `form:"lng" validate:"omitempty,longitude"`
	Radius    float64  `form:"radius" validate:"omitempty,gt=0,lte=500000"`
	Type      string   `form:"type" validate:"omitempty,oneof=flood earthquake heavy-rain cyclone heatwave other"`
}

// AlertLocationResponse зона оповещения
type AlertLocationResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	City         string  `json:"city,omitempty"`
	State        string  `json:"state,omitempty"`
	RadiusMeters int     `json:"radius_meters"`
}

// AlertResponse DTO оповещения
// @Description DTO оповещения
type AlertResponse struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        string                `json:"type"`
	Severity    string                `json:"severity"`
	Location    AlertLocationResponse `json:"location"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     *time.Time            `json:"end_time,omitempty"`
	Source      string                `json:"source"`
	IsActive    bool                  `json:"is_active"`
	CreatedBy   uuid.UUID             `json:"created_by"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TrendsQuery параметры трендов: период или диапазон дат YYYY-MM-DD
type TrendsQuery struct {
	Period string `form:"period" validate:"omitempty,oneof=week month quarter year"`
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// HeatmapQuery параметры тепловой карты; границы задаются все четыре или ни одной
type HeatmapQuery struct {
	North    *float64 `form:"north" validate:"omitempty,latitude"`
	South    *float64 `form:"south" validate:"omitempty,latitude"`
	East     *float64 `form:"east" validate:"omitempty,longitude"`
	West     *float64 `form:"west" validate:"omitempty,longitude"`
	Category string   `form:"category" validate:"omitempty,oneof=pothole garbage streetlight water electricity sewage traffic vandalism other"`
	Status   string   `form:"status" validate:"omitempty,oneof=submitted in-progress resolved rejected"`
	From     string   `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string   `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

func (q HeatmapQuery) boundsCount() int {
	n := 0
	for _, v := range []*float64{q.North, q.South, q.East, q.West} {
		if v != nil {
			n++
		}
	}
	return n
}
