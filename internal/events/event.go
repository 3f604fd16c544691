package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
)

// Name имя события жизненного цикла заявки
type Name string

const (
	IssueCreated       Name = "issue.created"
	IssueStatusChanged Name = "issue.status_changed"
	IssueAssigned      Name = "issue.assigned"
	IssueUpvoted       Name = "issue.upvoted"
	IssueProofAdded    Name = "issue.proof_added"
	IssueResolved      Name = "issue.resolved"

	AlertCreated       Name = "alert.created"
	AlertStatusChanged Name = "alert.status_changed"
)

// Event - полезная нагрузка события; сериализуется в JSON для очереди и широковещательного канала
type Event struct {
	ID         uuid.UUID          `json:"id"`
	Name       Name               `json:"name"`
	IssueID    uuid.UUID          `json:"issue_id"`
	IssueTitle string             `json:"issue_title"`
	ReporterID uuid.UUID          `json:"reporter_id"`
	ActorID    uuid.UUID          `json:"actor_id"`
	OfficialID *uuid.UUID         `json:"official_id,omitempty"`
	VoterID    *uuid.UUID         `json:"voter_id,omitempty"`
	Department string             `json:"department,omitempty"`
	Status     models.IssueStatus `json:"status"`
	Priority   models.Priority    `json:"priority"`
	Votes      int                `json:"votes"`
	Alert      *AlertInfo         `json:"alert,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// AlertInfo состояние оповещения в событиях alert.*
type AlertInfo struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Type         models.AlertType     `json:"type"`
	Severity     models.AlertSeverity `json:"severity"`
	Latitude     float64              `json:"latitude"`
	Longitude    float64              `json:"longitude"`
	RadiusMeters int                  `json:"radius_meters"`
	IsActive     bool                 `json:"is_active"`
}

// NewIssueEvent собирает событие из текущего состояния заявки
func NewIssueEvent(name Name, issue *models.Issue, actorID uuid.UUID, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Name:       name,
		IssueID:    issue.ID,
		IssueTitle: issue.Title,
		ReporterID: issue.ReportedBy,
		ActorID:    actorID,
		OfficialID: issue.AssignedTo.Official,
		Department: issue.AssignedTo.Department,
		Status:     issue.Status,
		Priority:   issue.Priority,
		Votes:      issue.Votes,
		OccurredAt: at,
	}
}

// NewAlertEvent собирает событие из текущего состояния оповещения
func NewAlertEvent(name Name, alert *models.Alert, actorID uuid.UUID, at time.Time) Event {
	return Event{
		ID:      uuid.New(),
		Name:    name,
		ActorID: actorID,
		Alert: &AlertInfo{
			ID:           alert.ID,
			Title:        alert.Title,
			Description:  alert.Description,
			Type:         alert.Type,
			Severity:     alert.Severity,
			Latitude:     alert.Location.Latitude,
			Longitude:    alert.Location.Longitude,
			RadiusMeters: alert.Location.RadiusMeters,
			IsActive:     alert.IsActive,
		},
		OccurredAt: at,
	}
}
