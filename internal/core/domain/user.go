package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role controls which admin areas a user can reach.
type Role string

const (
	RoleAgent      Role = "agent"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAgent, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// User is an operator of the helpdesk dashboard.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NavItem is one entry of the dashboard navigation.
type NavItem struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// Navigation returns the dashboard entries visible to role.
func Navigation(role Role) []NavItem {
	items := []NavItem{{Name: "Home", Href: "/"}}
	switch role {
	case RoleAdmin:
		items = append(items,
			NavItem{Name: "Users", Href: "/admin/users"},
			NavItem{Name: "Webhooks", Href: "/admin/webhooks"},
			NavItem{Name: "Logs", Href: "/admin/logs"},
		)
	case RoleSupervisor:
		items = append(items, NavItem{Name: "Coaching", Href: "/supervisor/coaching"})
	}
	return items
}
