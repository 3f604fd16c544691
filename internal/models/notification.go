package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationIssueSubmission NotificationType = "issue-submission"
	NotificationStatusUpdate    NotificationType = "status-update"
	NotificationAssignment      NotificationType = "assignment"
	NotificationResolution      NotificationType = "resolution"
	NotificationUpvote          NotificationType = "upvote"
	NotificationAlert           NotificationType = "alert"
	NotificationSystem          NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationIssueSubmission, NotificationStatusUpdate, NotificationAssignment,
		NotificationResolution, NotificationUpvote, NotificationAlert, NotificationSystem:
		return true
	}
	return false
}

type Notification struct {
	ID           uuid.UUID        `json:"id"`
	Recipient    uuid.UUID        `json:"recipient"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Type         NotificationType `json:"type"`
	RelatedIssue *uuid.UUID       `json:"related_issue,omitempty"`
	RelatedAlert *uuid.UUID       `json:"related_alert,omitempty"`
	IsRead       bool             `json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NotificationPage страница уведомлений пользователя
type NotificationPage struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int64           `json:"unread_count"`
	Pagination    Pagination      `json:"pagination"`
}
