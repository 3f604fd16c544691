package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
)

const (
	issuesCollection        = "issues"
	usersCollection         = "users"
	notificationsCollection = "notifications"
	alertsCollection        = "alerts"
)

// geoPoint точка GeoJSON; координаты в порядке [lon, lat]
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type assignmentDocument struct {
	Department string `bson:"department"`
	Official   string `bson:"official,omitempty"`
}

type historyDocument struct {
	Status    models.IssueStatus `bson:"status"`
	UpdatedBy string             `bson:"updatedBy"`
	Comment   string             `bson:"comment"`
	Timestamp time.Time          `bson:"timestamp"`
}

type resolutionDocument struct {
	ResolvedBy     string    `bson:"resolvedBy"`
	ResolutionDate time.Time `bson:"resolutionDate"`
	Description    string    `bson:"description"`
	Images         []string  `bson:"images"`
}

type issueDocument struct {
	ID                string               `bson:"_id"`
	Title             string               `bson:"title"`
	Description       string               `bson:"description"`
	Category          models.IssueCategory `bson:"category"`
	Location          geoPoint             `bson:"location"`
	Address           string               `bson:"address"`
	City              string               `bson:"city"`
	State             string               `bson:"state"`
	Pincode           string               `bson:"pincode"`
	Images            []string             `bson:"images"`
	VoiceNote         string               `bson:"voiceNote,omitempty"`
	ReportedBy        string               `bson:"reportedBy"`
	AssignedTo        assignmentDocument   `bson:"assignedTo"`
	Status            models.IssueStatus   `bson:"status"`
	Priority          models.Priority      `bson:"priority"`
	Votes             int                  `bson:"votes"`
	Voters            []string             `bson:"voters"`
	StatusHistory     []historyDocument    `bson:"statusHistory"`
	ResolutionDetails *resolutionDocument  `bson:"resolutionDetails,omitempty"`
	Version           int64                `bson:"version"`
	CreatedAt         time.Time            `bson:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt"`
}

func toIssueDocument(issue *models.Issue, version int64) *issueDocument {
	doc := &issueDocument{
		ID:          issue.ID.String(),
		Title:       issue.Title,
		Description: issue.Description,
		Category:    issue.Category,
		Location: geoPoint{
			Type:        "Point",
			Coordinates: []float64{issue.Location.Longitude, issue.Location.Latitude},
		},
		Address:    issue.Location.Address,
		City:       issue.Location.City,
		State:      issue.Location.State,
		Pincode:    issue.Location.Pincode,
		Images:     issue.Images,
		VoiceNote:  issue.VoiceNote,
		ReportedBy: issue.ReportedBy.String(),
		AssignedTo: assignmentDocument{Department: issue.AssignedTo.Department},
		Status:     issue.Status,
		Priority:   issue.Priority,
		Votes:      issue.Votes,
		Voters:     make([]string, 0, len(issue.Voters)),
		Version:    version,
		CreatedAt:  issue.CreatedAt,
		UpdatedAt:  issue.UpdatedAt,
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	if issue.AssignedTo.Official != nil {
		doc.AssignedTo.Official = issue.AssignedTo.Official.String()
	}
	for _, v := range issue.Voters {
		doc.Voters = append(doc.Voters, v.String())
	}
	doc.StatusHistory = make([]historyDocument, 0, len(issue.StatusHistory))
	for _, h := range issue.StatusHistory {
		doc.StatusHistory = append(doc.StatusHistory, historyDocument{
			Status:    h.Status,
			UpdatedBy: h.UpdatedBy.String(),
			Comment:   h.Comment,
			Timestamp: h.Timestamp,
		})
	}
	if d := issue.ResolutionDetails; d != nil {
		doc.ResolutionDetails = &resolutionDocument{
			ResolvedBy:     d.ResolvedBy.String(),
			ResolutionDate: d.ResolutionDate,
			Description:    d.Description,
			Images:         d.Images,
		}
	}
	return doc
}

func (d *issueDocument) toModel() (*models.Issue, error) {
	var p uuidParser
	issue := &models.Issue{
		ID:          p.parse(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Location: models.Location{
			Address: d.Address,
			City:    d.City,
			State:   d.State,
			Pincode: d.Pincode,
		},
		Images:     d.Images,
		VoiceNote:  d.VoiceNote,
		ReportedBy: p.parse(d.ReportedBy),
		AssignedTo: models.Assignment{Department: d.AssignedTo.Department},
		Status:     d.Status,
		Priority:   d.Priority,
		Votes:      d.Votes,
		Voters:     make([]uuid.UUID, 0, len(d.Voters)),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if len(d.Location.Coordinates) == 2 {
		issue.Location.Longitude = d.Location.Coordinates[0]
		issue.Location.Latitude = d.Location.Coordinates[1]
	}
	if issue.Images == nil {
		issue.Images = []string{}
	}
	if d.AssignedTo.Official != "" {
		official := p.parse(d.AssignedTo.Official)
		issue.AssignedTo.Official = &official
	}
	for _, v := range d.Voters {
		issue.Voters = append(issue.Voters, p.parse(v))
	}
	issue.StatusHistory = make([]models.StatusHistoryEntry, 0, len(d.StatusHistory))
	for _, h := range d.StatusHistory {
		issue.StatusHistory = append(issue.StatusHistory, models.StatusHistoryEntry{
			Status:    h.Status,
			UpdatedBy: p.parse(h.UpdatedBy),
			Comment:   h.Comment,
			Timestamp: h.Timestamp.UTC(),
		})
	}
	if r := d.ResolutionDetails; r != nil {
		issue.ResolutionDetails = &models.ResolutionDetails{
			ResolvedBy:     p.parse(r.ResolvedBy),
			ResolutionDate: r.ResolutionDate.UTC(),
			Description:    r.Description,
			Images:         r.Images,
		}
	}
	if p.err != nil {
		return nil, fmt.Errorf("decode issue %s: %w: %w", d.ID, models.ErrStorage, p.err)
	}
	return issue, nil
}

type badgeDocument struct {
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	AwardedOn   time.Time `bson:"awardedOn"`
}

type userDocument struct {
	ID           string          `bson:"_id"`
	Name         string          `bson:"name"`
	Email        string          `bson:"email"`
	Phone        string          `bson:"phone"`
	PasswordHash string          `bson:"passwordHash"`
	Role         models.Role     `bson:"role"`
	Department   string          `bson:"department,omitempty"`
	Points       int             `bson:"points"`
	Badges       []badgeDocument `bson:"badges"`
	PointKeys    []string        `bson:"pointKeys"`
	CreatedAt    time.Time       `bson:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt"`
}

func toUserDocument(user *models.User) *userDocument {
	doc := &userDocument{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Department:   user.Department,
		Points:       user.Points,
		Badges:       make([]badgeDocument, 0, len(user.Badges)),
		PointKeys:    []string{},
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	for _, b := range user.Badges {
		doc.Badges = append(doc.Badges, badgeDocument(b))
	}
	return doc
}

func (d *userDocument) toModel() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user %s: %w: %w", d.ID, models.ErrStorage, err)
	}
	user := &models.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Department:   d.Department,
		Points:       d.Points,
		Badges:       make([]models.Badge, 0, len(d.Badges)),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	for _, b := range d.Badges {
		badge := models.Badge(b)
		badge.AwardedOn = badge.AwardedOn.UTC()
		user.Badges = append(user.Badges, badge)
	}
	return user, nil
}

type notificationDocument struct {
	ID           string                  `bson:"_id"`
	Recipient    string                  `bson:"recipient"`
	Title        string                  `bson:"title"`
	Message      string                  `bson:"message"`
	Type         models.NotificationType `bson:"type"`
	RelatedIssue string                  `bson:"relatedIssue,omitempty"`
	RelatedAlert string                  `bson:"relatedAlert,omitempty"`
	IsRead       bool                    `bson:"isRead"`
	CreatedAt    time.Time               `bson:"createdAt"`
}

func toNotificationDocument(n *models.Notification) *notificationDocument {
	doc := &notificationDocument{
		ID:        n.ID.String(),
		Recipient: n.Recipient.String(),
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedIssue != nil {
		doc.RelatedIssue = n.RelatedIssue.String()
	}
	if n.RelatedAlert != nil {
		doc.RelatedAlert = n.RelatedAlert.String()
	}
	return doc
}

func (d *notificationDocument) toModel() (*models.Notification, error) {
	var p uuidParser
	n := &models.Notification{
		ID:        p.parse(d.ID),
		Recipient: p.parse(d.Recipient),
		Title:     d.Title,
		Message:   d.Message,
		Type:      d.Type,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.RelatedIssue != "" {
		related := p.parse(d.RelatedIssue)
		n.RelatedIssue = &related
	}
	if d.RelatedAlert != "" {
		related := p.parse(d.RelatedAlert)
		n.RelatedAlert = &related
	}
	if p.err != nil {
		return nil, fmt.Errorf("decode notification %s: %w: %w", d.ID, models.ErrStorage, p.err)
	}
	return n, nil
}

// alertDocument хранит ранг серьезности рядом со значением для сортировки
type alertDocument struct {
	ID           string               `bson:"_id"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description"`
	Type         models.AlertType     `bson:"type"`
	Severity     models.AlertSeverity `bson:"severity"`
	SeverityRank int                  `bson:"severityRank"`
	Location     geoPoint             `bson:"location"`
	City         string               `bson:"city,omitempty"`
	State        string               `bson:"state,omitempty"`
	RadiusMeters int                  `bson:"radiusMeters"`
	StartTime    time.Time            `bson:"startTime"`
	EndTime      *time.Time           `bson:"endTime,omitempty"`
	Source       string               `bson:"source"`
	IsActive     bool                 `bson:"isActive"`
	CreatedBy    string               `bson:"createdBy"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func toAlertDocument(a *models.Alert) *alertDocument {
	return &alertDocument{
		ID:           a.ID.String(),
		Title:        a.Title,
		Description:  a.Description,
		Type:         a.Type,
		Severity:     a.Severity,
		SeverityRank: a.Severity.Rank(),
		Location: geoPoint{
			Type:        "Point",
			Coordinates: []float64{a.Location.Longitude, a.Location.Latitude},
		},
		City:         a.Location.City,
		State:        a.Location.State,
		RadiusMeters: a.Location.RadiusMeters,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		Source:       a.Source,
		IsActive:     a.IsActive,
		CreatedBy:    a.CreatedBy.String(),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (d *alertDocument) toModel() (*models.Alert, error) {
	if len(d.Location.Coordinates) != 2 {
		return nil, fmt.Errorf("decode alert %s: %w: malformed location", d.ID, models.ErrStorage)
	}
	var p uuidParser
	a := &models.Alert{
		ID:          p.parse(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Type:        d.Type,
		Severity:    d.Severity,
		Location: models.AlertArea{
			Latitude:     d.Location.Coordinates[1],
			Longitude:    d.Location.Coordinates[0],
			City:         d.City,
			State:        d.State,
			RadiusMeters: d.RadiusMeters,
		},
		StartTime: d.StartTime.UTC(),
		Source:    d.Source,
		IsActive:  d.IsActive,
		CreatedBy: p.parse(d.CreatedBy),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.EndTime != nil {
		end := d.EndTime.UTC()
		a.EndTime = &end
	}
	if p.err != nil {
		return nil, fmt.Errorf("decode alert %s: %w: %w", d.ID, models.ErrStorage, p.err)
	}
	return a, nil
}

// uuidParser запоминает первую ошибку разбора
type uuidParser struct {
	err error
}

func (p *uuidParser) parse(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return id
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
