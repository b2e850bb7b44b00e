package models

import "time"

// Role grants coarse permissions to a console user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
)

// User is a console account. Credentials live with the login collaborator;
// this table only carries what the inventory screens manage.
type User struct {
	Base
	Username  string     `gorm:"column:username;size:100;uniqueIndex;not null" json:"username"`
	Role      Role       `gorm:"column:role;size:20;not null;default:operator" json:"role"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
}
