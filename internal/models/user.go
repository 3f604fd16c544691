package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleGovernment Role = "government"
)

func (r Role) Valid() bool {
	return r == RoleCitizen || r == RoleGovernment
}

// Начисления очков и значки
const (
	PointsForReport     = 5
	PointsForResolution = 10
	PointsForUpvote     = 2

	CivicChampionBadge       = "Civic Champion"
	CivicChampionDescription = "Successfully reported and got 5 issues resolved"
	CivicChampionThreshold   = 5
)

type Badge struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AwardedOn   time.Time `json:"awarded_on"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	Points       int       `json:"points"`
	Badges       []Badge   `json:"badges"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasBadge проверяет наличие значка по имени
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}
