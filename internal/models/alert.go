package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultAlertRadius зона действия оповещения по умолчанию, метры
	DefaultAlertRadius = 5000
	// DefaultAlertSearchRadius радиус поиска оповещений вокруг точки, метры
	DefaultAlertSearchRadius = 50000
	DefaultAlertSource       = "Government"
)

// AlertType тип оповещения
type AlertType string

const (
	AlertFlood      AlertType = "flood"
	AlertEarthquake AlertType = "earthquake"
	AlertHeavyRain  AlertType = "heavy-rain"
	AlertCyclone    AlertType = "cyclone"
	AlertHeatwave   AlertType = "heatwave"
	AlertOther      AlertType = "other"
)

var AlertTypes = []AlertType{AlertFlood, AlertEarthquake, AlertHeavyRain, AlertCyclone, AlertHeatwave, AlertOther}

func (t AlertType) Valid() bool {
	return slices.Contains(AlertTypes, t)
}

// AlertSeverity серьезность оповещения
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

var severityRanks = map[AlertSeverity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank числовой уровень серьезности (low=1 .. critical=4), 0 для неизвестной
func (s AlertSeverity) Rank() int {
	return severityRanks[s]
}

func (s AlertSeverity) Valid() bool {
	return s.Rank() > 0
}

// AlertArea центр и радиус зоны оповещения
type AlertArea struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	City         string  `json:"city,omitempty"`
	State        string  `json:"state,omitempty"`
	RadiusMeters int     `json:"radius_meters"`
}

// Alert оповещение для жителей района (наводнение, жара и т.п.)
type Alert struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        AlertType     `json:"type"`
	Severity    AlertSeverity `json:"severity"`
	Location    AlertArea     `json:"location"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	Source      string        `json:"source"`
	IsActive    bool          `json:"is_active"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// AlertFilter выборка активных оповещений; сортировка по серьезности, затем по началу
type AlertFilter struct {
	Near *GeoRadius
	Type AlertType
}

// Normalize подставляет радиус поиска по умолчанию
func (f *AlertFilter) Normalize() {
	if f.Near != nil && f.Near.RadiusMeters <= 0 {
		f.Near.RadiusMeters = DefaultAlertSearchRadius
	}
}
