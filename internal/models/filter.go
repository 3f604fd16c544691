package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultRadius   = 5000
)

// GeoRadius круг поиска вокруг точки
type GeoRadius struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// IssueFilter параметры выборки заявок
type IssueFilter struct {
	Status     IssueStatus
	Category   IssueCategory
	Priority   Priority
	Department string
	City       string
	State      string
	ReportedBy *uuid.UUID
	Near       *GeoRadius
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortDesc   bool
	Page       int
	PageSize   int
}

// Sort keys поддерживаемые хранилищами
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByVotes     = "votes"
)

// Normalize приводит пагинацию и сортировку к допустимым значениям
func (f *IssueFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		f.PageSize = DefaultPageSize
	}
	switch f.SortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByVotes:
	default:
		f.SortBy = SortByCreatedAt
		f.SortDesc = true
	}
	if f.Near != nil && f.Near.RadiusMeters <= 0 {
		f.Near.RadiusMeters = DefaultRadius
	}
}

// Offset смещение для текущей страницы
func (f *IssueFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Pagination метаданные страницы
type Pagination struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
}

// NewPagination считает количество страниц
func NewPagination(total int64, page, pageSize int) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{Total: total, Page: page, PageSize: pageSize, Pages: pages}
}

type IssuePage struct {
	Issues     []*Issue   `json:"issues"`
	Pagination Pagination `json:"pagination"`
}

// ReporterIssuePage заявки пользователя со счетчиками по статусам
type ReporterIssuePage struct {
	Issues     []*Issue              `json:"issues"`
	Counts     map[IssueStatus]int64 `json:"counts"`
	Pagination Pagination            `json:"pagination"`
}
