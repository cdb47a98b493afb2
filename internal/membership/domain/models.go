// Package domain contains the membership model and its role/status tables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Membership is a user's relationship to one organization.
type Membership struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID `gorm:"not null;index;uniqueIndex:ux_memberships_org_email,priority:1" json:"org_id"`
	UserEmail       string       `gorm:"type:text;not null;uniqueIndex:ux_memberships_org_email,priority:2" json:"user_email"`
	UserName        string       `gorm:"type:text" json:"user_name,omitempty"`
	Role            string       `gorm:"type:text;not null" json:"role"`
	Status          string       `gorm:"type:text;not null;index" json:"status"`
	InviteToken     *string      `gorm:"type:text;index" json:"-"`
	InviteExpiresAt *time.Time   `json:"invite_expires_at,omitempty"`
	InvitedByEmail  string       `gorm:"type:text" json:"invited_by_email,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "memberships" }

const (
	RoleOwner    = "owner"
	RoleOrgAdmin = "org_admin"
	RoleManager  = "manager"
	RoleExecutor = "executor"
	RoleViewer   = "viewer"
)

const (
	StatusActive  = "active"
	StatusInvited = "invited"

	// StatusDeleted is a terminal pseudo-state: rows never carry it, a
	// transition into it removes the row.
	StatusDeleted = "deleted"
)

// ValidRole reports whether r is one of the closed role set.
func ValidRole(r string) bool {
	switch r {
	case RoleOwner, RoleOrgAdmin, RoleManager, RoleExecutor, RoleViewer:
		return true
	default:
		return false
	}
}

// CanInvite reports whether a member holding role may issue invitations.
func CanInvite(role string) bool {
	switch role {
	case RoleOwner, RoleOrgAdmin, RoleManager:
		return true
	default:
		return false
	}
}

// CanAdminMembers reports whether role may add members directly or edit the
// subscription.
func CanAdminMembers(role string) bool {
	return role == RoleOwner || role == RoleOrgAdmin
}

// CanManageWork reports whether role may create or modify projects, tasks
// and base stations.
func CanManageWork(role string) bool {
	switch role {
	case RoleOwner, RoleOrgAdmin, RoleManager:
		return true
	default:
		return false
	}
}

var allowedTransitions = map[string]map[string]bool{
	StatusInvited: {
		StatusActive:  true,
		StatusDeleted: true,
	},
	StatusActive: {
		StatusActive: true, // idempotent no-op
	},
}

// CanTransition reports whether a membership may move from one status to
// another.
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}
