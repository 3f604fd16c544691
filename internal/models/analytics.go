package models

import (
	"time"

	"github.com/google/uuid"
)

// ResolutionTime статистика времени решения в днях
type ResolutionTime struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type CategoryCount struct {
	Category IssueCategory `json:"category"`
	Count    int64         `json:"count"`
}

type UserCounts struct {
	Total      int64 `json:"total"`
	Citizens   int64 `json:"citizens"`
	Government int64 `json:"government"`
}

// DepartmentPerformance топ отделов по количеству решенных заявок
type DepartmentPerformance struct {
	Department        string  `json:"department"`
	ResolvedCount     int64   `json:"resolved_count"`
	AvgResolutionDays float64 `json:"avg_resolution_days"`
}

type Overview struct {
	StatusCounts   map[IssueStatus]int64   `json:"status_counts"`
	Total          int64                   `json:"total"`
	ResolutionRate float64                 `json:"resolution_rate"`
	CategoryCounts []CategoryCount         `json:"category_counts"`
	ResolutionTime ResolutionTime          `json:"resolution_time"`
	Users          UserCounts              `json:"users"`
	Departments    []DepartmentPerformance `json:"department_performance"`
}

// DepartmentStats метрики отдела
type DepartmentStats struct {
	Department        string   `json:"department"`
	Total             int64    `json:"total"`
	Resolved          int64    `json:"resolved"`
	InProgress        int64    `json:"in_progress"`
	Pending           int64    `json:"pending"`
	ResolutionRate    float64  `json:"resolution_rate"`
	AvgResolutionDays *float64 `json:"avg_resolution_days,omitempty"`
}

// LeaderboardEntry строка рейтинга граждан
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Points int       `json:"points"`
	Badges int       `json:"badges"`
}

// TrendGranularity шаг группировки трендов
type TrendGranularity string

const (
	GranularityDay   TrendGranularity = "day"
	GranularityWeek  TrendGranularity = "week"
	GranularityMonth TrendGranularity = "month"
)

// Периоды трендов без явного диапазона
const (
	TrendPeriodWeek    = "week"
	TrendPeriodMonth   = "month"
	TrendPeriodQuarter = "quarter"
	TrendPeriodYear    = "year"
)

// TrendQuery явный диапазон From..To важнее периода
type TrendQuery struct {
	Period string
	From   *time.Time
	To     *time.Time
}

// TrendWindow диапазон и шаг выборки трендов
type TrendWindow struct {
	Start       time.Time        `json:"start"`
	End         time.Time        `json:"end"`
	Period      string           `json:"period"`
	Granularity TrendGranularity `json:"granularity"`
}

// TrendPoint заявки, созданные в интервале, по текущему статусу
type TrendPoint struct {
	Date       string `json:"date"`
	Submitted  int64  `json:"submitted"`
	InProgress int64  `json:"in_progress"`
	Resolved   int64  `json:"resolved"`
	Total      int64  `json:"total"`
}

type CategoryTrendPoint struct {
	Date       string          `json:"date"`
	Categories []CategoryCount `json:"categories"`
}

type Trends struct {
	Window     TrendWindow          `json:"time_range"`
	Issues     []TrendPoint         `json:"issues_trend"`
	Categories []CategoryTrendPoint `json:"category_trend"`
}

// GeoBounds прямоугольник карты
type GeoBounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// HeatmapFilter выборка заявок для тепловой карты
type HeatmapFilter struct {
	Bounds   *GeoBounds
	Category IssueCategory
	Status   IssueStatus
	From     *time.Time
	To       *time.Time
}

// HeatPoint точка тепловой карты
type HeatPoint struct {
	IssueID   uuid.UUID     `json:"id"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Category  IssueCategory `json:"category"`
	Status    IssueStatus   `json:"status"`
	Priority  Priority      `json:"priority"`
	Votes     int           `json:"votes"`
	Intensity float64       `json:"intensity"`
}

type Heatmap struct {
	Points         []HeatPoint           `json:"heatmap_data"`
	CategoryCounts []CategoryCount       `json:"category_counts"`
	StatusCounts   map[IssueStatus]int64 `json:"status_counts"`
	Total          int                   `json:"total"`
}
