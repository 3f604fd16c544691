package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
)

// DTOToUserModel преобразует DTO регистрации в доменную модель.
// Роль по умолчанию - гражданин.
func DTOToUserModel(dto RegisterRequest) *models.User {
	role := models.Role(dto.Role)
	if role == "" {
		role = models.RoleCitizen
	}
	return &models.User{
		Name:       dto.Name,
		Email:      dto.Email,
		Phone:      dto.Phone,
		Role:       role,
		Department: dto.Department,
	}
}

// ModelToUserResponse преобразует пользователя в DTO для ответа
func ModelToUserResponse(model *models.User) *UserResponse {
	badges := make([]BadgeResponse, 0, len(model.Badges))
	for _, b := range model.Badges {
		badges = append(badges, BadgeResponse{
			Name:        b.Name,
			Description: b.Description,
			AwardedOn:   b.AwardedOn,
		})
	}
	return &UserResponse{
		ID:         model.ID,
		Name:       model.Name,
		Email:      model.Email,
		Phone:      model.Phone,
		Role:       string(model.Role),
		Department: model.Department,
		Points:     model.Points,
		Badges:     badges,
		CreatedAt:  model.CreatedAt,
	}
}

// DTOToIssueModel преобразует DTO создания заявки в доменную модель
func DTOToIssueModel(dto CreateIssueRequest, reporter uuid.UUID) *models.Issue {
	return &models.Issue{
		Title:       dto.Title,
		Description: dto.Description,
		Category:    models.IssueCategory(dto.Category),
		Location: models.Location{
			Latitude:  *dto.Latitude,
			Longitude: *dto.Longitude,
			Address:   dto.Address,
			City:      dto.City,
			State:     dto.State,
			Pincode:   dto.Pincode,
		},
		Images:     dto.Images,
		VoiceNote:  dto.VoiceNote,
		ReportedBy: reporter,
	}
}

// ModelToIssueResponse преобразует заявку в DTO для ответа.
// Список проголосовавших наружу не отдается.
func ModelToIssueResponse(model *models.Issue) *IssueResponse {
	history := make([]StatusHistoryResponse, 0, len(model.StatusHistory))
	for _, h := range model.StatusHistory {
		history = append(history, StatusHistoryResponse{
			Status:    string(h.Status),
			UpdatedBy: h.UpdatedBy,
			Comment:   h.Comment,
			Timestamp: h.Timestamp,
		})
	}

	images := model.Images
	if images == nil {
		images = []string{}
	}

	resp := &IssueResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Category:    string(model.Category),
		Location: LocationResponse{
			Latitude:  model.Location.Latitude,
			Longitude: model.Location.Longitude,
			Address:   model.Location.Address,
			City:      model.Location.City,
			State:     model.Location.State,
			Pincode:   model.Location.Pincode,
		},
		Images:     images,
		VoiceNote:  model.VoiceNote,
		ReportedBy: model.ReportedBy,
		AssignedTo: AssignmentResponse{
			Department: model.AssignedTo.Department,
			Official:   model.AssignedTo.Official,
		},
		Status:        string(model.Status),
		Priority:      string(model.Priority),
		Votes:         model.Votes,
		StatusHistory: history,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if d := model.ResolutionDetails; d != nil {
		resp.Resolution = &ResolutionResponse{
			ResolvedBy:     d.ResolvedBy,
			ResolutionDate: d.ResolutionDate,
			Description:    d.Description,
			Images:         d.Images,
		}
	}
	return resp
}

// ModelsToIssueResponses преобразует срез заявок
func ModelsToIssueResponses(issues []*models.Issue) []*IssueResponse {
	responses := make([]*IssueResponse, len(issues))
	for i, issue := range issues {
		responses[i] = ModelToIssueResponse(issue)
	}
	return responses
}

func ModelToMyIssuesResponse(page *models.ReporterIssuePage) *MyIssuesResponse {
	counts := make(map[string]int64, len(page.Counts))
	for status, n := range page.Counts {
		counts[string(status)] = n
	}
	return &MyIssuesResponse{
		Issues:     ModelsToIssueResponses(page.Issues),
		Counts:     counts,
		Pagination: page.Pagination,
	}
}

func ModelToVoteResponse(model *models.VoteResult) *VoteResponse {
	return &VoteResponse{
		IssueID:  model.IssueID,
		Votes:    model.Votes,
		Priority: string(model.Priority),
	}
}

// DTOToNotificationModel преобразует DTO системного уведомления; uuid уже проверены валидатором
func DTOToNotificationModel(dto CreateNotificationRequest) *models.Notification {
	n := &models.Notification{
		Recipient: uuid.MustParse(dto.Recipient),
		Title:     dto.Title,
		Message:   dto.Message,
		Type:      models.NotificationType(dto.Type),
	}
	if dto.RelatedIssue != "" {
		issueID := uuid.MustParse(dto.RelatedIssue)
		n.RelatedIssue = &issueID
	}
	return n
}

func ModelToNotificationResponse(model *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:           model.ID,
		Title:        model.Title,
		Message:      model.Message,
		Type:         string(model.Type),
		RelatedIssue: model.RelatedIssue,
		RelatedAlert: model.RelatedAlert,
		IsRead:       model.IsRead,
		CreatedAt:    model.CreatedAt,
	}
}

func ModelToNotificationListResponse(page *models.NotificationPage) *NotificationListResponse {
	items := make([]*NotificationResponse, len(page.Notifications))
	for i, n := range page.Notifications {
		items[i] = ModelToNotificationResponse(n)
	}
	return &NotificationListResponse{
		Notifications: items,
		UnreadCount:   page.UnreadCount,
		Pagination:    page.Pagination,
	}
}

// parseIDs разбирает идентификаторы, уже проверенные тегом uuid
func parseIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		ids = append(ids, uuid.MustParse(s))
	}
	return ids
}

// dateRange разбирает даты, уже проверенные валидатором; to включительно до конца дня
func dateRange(fromRaw, toRaw string) (*time.Time, *time.Time) {
	var from, to *time.Time
	if v, err := time.Parse(time.DateOnly, fromRaw); err == nil {
		from = &v
	}
	if v, err := time.Parse(time.DateOnly, toRaw); err == nil {
		end := v.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to
}

func QueryToTrendQuery(q TrendsQuery) models.TrendQuery {
	from, to := dateRange(q.From, q.To)
	return models.TrendQuery{Period: q.Period, From: from, To: to}
}

func QueryToHeatmapFilter(q HeatmapQuery) models.HeatmapFilter {
	f := models.HeatmapFilter{
		Category: models.IssueCategory(q.Category),
		Status:   models.IssueStatus(q.Status),
	}
	if q.boundsCount() == 4 {
		f.Bounds = &models.GeoBounds{North: *q.North, South: *q.South, East: *q.East, West: *q.West}
	}
	f.From, f.To = dateRange(q.From, q.To)
	return f
}

// QueryToIssueFilter преобразует параметры запроса в фильтр; формат дат уже проверен валидатором
func QueryToIssueFilter(q IssueListQuery) models.IssueFilter {
	f := models.IssueFilter{
		Status:     models.IssueStatus(q.Status),
		Category:   models.IssueCategory(q.Category),
		Priority:   models.Priority(q.Priority),
		Department: q.Department,
		City:       q.City,
		State:      q.State,
		SortBy:     q.SortBy,
		SortDesc:   q.Order != "asc",
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	if q.Latitude != nil && q.Longitude != nil {
		f.Near = &models.GeoRadius{
			Latitude:     *q.Latitude,
			Longitude:    *q.Longitude,
			RadiusMeters: q.Radius,
		}
	}
	f.From, f.To = dateRange(q.From, q.To)
	return f
}

// DTOToAlertModel преобразует DTO оповещения; координаты уже проверены валидатором
func DTOToAlertModel(dto CreateAlertRequest, author uuid.UUID) *models.Alert {
	alert := &models.Alert{
		Title:       dto.Title,
		Description: dto.Description,
		Type:        models.AlertType(dto.Type),
		Severity:    models.AlertSeverity(dto.Severity),
		Location: models.AlertArea{
			Latitude:     *dto.Latitude,
			Longitude:    *dto.Longitude,
			City:         dto.City,
			State:        dto.State,
			RadiusMeters: dto.RadiusMeters,
		},
		EndTime:   dto.EndTime,
		Source:    dto.Source,
		CreatedBy: author,
	}
	if dto.StartTime != nil {
		alert.StartTime = dto.StartTime.UTC()
	}
	return alert
}

func ModelToAlertResponse(model *models.Alert) *AlertResponse {
	return &AlertResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Type:        string(model.Type),
		Severity:    string(model.Severity),
		Location: AlertLocationResponse{
			Latitude:     model.Location.Latitude,
			Longitude:    model.Location.Longitude,
			City:         model.Location.City,
			State:        model.Location.State,
			RadiusMeters: model.Location.RadiusMeters,
		},
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		Source:    model.Source,
		IsActive:  model.IsActive,
		CreatedBy: model.CreatedBy,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ModelsToAlertResponses(alerts []*models.Alert) []*AlertResponse {
	out := make([]*AlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = ModelToAlertResponse(a)
	}
	return out
}

func QueryToAlertFilter(q AlertListQuery) models.AlertFilter {
	f := models.AlertFilter{Type: models.AlertType(q.Type)}
	if q.Latitude != nil && q.Longitude != nil {
		f.Near = &models.GeoRadius{
			Latitude:     *q.Latitude,
			Longitude:    *q.Longitude,
			RadiusMeters: q.Radius,
		}
	}
	return f
}
