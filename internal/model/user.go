package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// RoleAdmin grants access to user administration endpoints.
	RoleAdmin = "admin"
	// RoleSuperUser is reserved for operators.
	RoleSuperUser = "super-user"
	// RoleUser is assigned to every account by default.
	RoleUser = "user"
)

// ValidRoles lists every role a user may hold.
var ValidRoles = []string{RoleAdmin, RoleSuperUser, RoleUser}

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName     string    `json:"fullName" gorm:"column:full_name;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Roles        []string  `json:"roles" gorm:"serializer:json;type:json"`
	IsActive     bool      `json:"isActive" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the ID and normalizes fields before insert.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	u.FullName = strings.TrimSpace(u.FullName)
	if len(u.Roles) == 0 {
		u.Roles = []string{RoleUser}
	}
	return nil
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...string) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// NormalizeEmail lower-cases and trims an email so lookups match stored values.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
