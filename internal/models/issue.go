package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// IssueCategory категория заявки
type IssueCategory string

const (
	CategoryPothole     IssueCategory = "pothole"
	CategoryGarbage     IssueCategory = "garbage"
	CategoryStreetlight IssueCategory = "streetlight"
	CategoryWater       IssueCategory = "water"
	CategoryElectricity IssueCategory = "electricity"
	CategorySewage      IssueCategory = "sewage"
	CategoryTraffic     IssueCategory = "traffic"
	CategoryVandalism   IssueCategory = "vandalism"
	CategoryOther       IssueCategory = "other"
)

// Categories перечисляет все известные категории в фиксированном порядке
var Categories = []IssueCategory{
	CategoryPothole,
	CategoryGarbage,
	CategoryStreetlight,
	CategoryWater,
	CategoryElectricity,
	CategorySewage,
	CategoryTraffic,
	CategoryVandalism,
	CategoryOther,
}

func (c IssueCategory) Valid() bool {
	return slices.Contains(Categories, c)
}

// IssueStatus статус заявки
type IssueStatus string

const (
	StatusSubmitted  IssueStatus = "submitted"
	StatusInProgress IssueStatus = "in-progress"
	StatusResolved   IssueStatus = "resolved"
	StatusRejected   IssueStatus = "rejected"
)

var Statuses = []IssueStatus{StatusSubmitted, StatusInProgress, StatusResolved, StatusRejected}

func (s IssueStatus) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Priority уровень срочности заявки
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityLevels = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

// Level возвращает числовой уровень приоритета (low=1 .. urgent=4), 0 для неизвестного
func (p Priority) Level() int {
	return priorityLevels[p]
}

func (p Priority) Valid() bool {
	return p.Level() > 0
}

// PriorityFromLevel обратное отображение уровня в приоритет
func PriorityFromLevel(level int) Priority {
	switch {
	case level >= 4:
		return PriorityUrgent
	case level == 3:
		return PriorityHigh
	case level == 2:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Location координаты и адрес места проблемы
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Pincode   string  `json:"pincode,omitempty"`
}

// Assignment ответственный отдел и чиновник
type Assignment struct {
	Department string     `json:"department"`
	Official   *uuid.UUID `json:"official,omitempty"`
}

// StatusHistoryEntry запись журнала изменений заявки
type StatusHistoryEntry struct {
	Status    IssueStatus `json:"status"`
	UpdatedBy uuid.UUID   `json:"updated_by"`
	Comment   string      `json:"comment"`
	Timestamp time.Time   `json:"timestamp"`
}

// ResolutionDetails сведения о решении заявки
type ResolutionDetails struct {
	ResolvedBy     uuid.UUID `json:"resolved_by"`
	ResolutionDate time.Time `json:"resolution_date"`
	Description    string    `json:"resolution_description"`
	Images         []string  `json:"resolution_images,omitempty"`
}

type Issue struct {
	ID                uuid.UUID            `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Category          IssueCategory        `json:"category"`
	Location          Location             `json:"location"`
	Images            []string             `json:"images"`
	VoiceNote         string               `json:"voice_note,omitempty"`
	ReportedBy        uuid.UUID            `json:"reported_by"`
	AssignedTo        Assignment           `json:"assigned_to"`
	Status            IssueStatus          `json:"status"`
	Priority          Priority             `json:"priority"`
	Votes             int                  `json:"votes"`
	Voters            []uuid.UUID          `json:"voters"`
	StatusHistory     []StatusHistoryEntry `json:"status_history"`
	ResolutionDetails *ResolutionDetails   `json:"resolution_details,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// HasVoter проверяет, голосовал ли пользователь за заявку
func (i *Issue) HasVoter(userID uuid.UUID) bool {
	return slices.Contains(i.Voters, userID)
}

// AppendHistory добавляет запись в журнал; журнал только растет
func (i *Issue) AppendHistory(status IssueStatus, actor uuid.UUID, comment string, at time.Time) {
	i.StatusHistory = append(i.StatusHistory, StatusHistoryEntry{
		Status:    status,
		UpdatedBy: actor,
		Comment:   comment,
		Timestamp: at,
	})
}

// VoteResult результат голосования за заявку
type VoteResult struct {
	IssueID  uuid.UUID `json:"issue_id"`
	Votes    int       `json:"votes"`
	Priority Priority  `json:"priority"`
}
