package entity

import (
	"time"
)

// User is a staff account of the POS back office. Customers talking to the
// support widget are not Users; they only appear as denormalized contact
// fields on chat messages.
type User struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Uuid      string    `gorm:"column:uuid;uniqueIndex;type:char(36);not null"`
	Username  string    `gorm:"column:username;uniqueIndex;type:varchar(64);not null"`
	Password  string    `gorm:"column:password;type:varchar(128);not null"`
	Nickname  string    `gorm:"column:nickname;type:varchar(64)"`
	Email     string    `gorm:"column:email;type:varchar(128)"`
	Phone     string    `gorm:"column:phone;type:varchar(32)"`
	Status    int8      `gorm:"column:status;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`

	Roles []Role `gorm:"many2many:staff_user_role;"`
}

func (User) TableName() string {
	return "staff_user"
}

// DisplayName prefers the nickname and falls back to the login name.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

func (u *User) HasRole(name string) bool {
	for i := range u.Roles {
		if u.Roles[i].Name == name {
			return true
		}
	}
	return false
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for i := range u.Roles {
		names = append(names, u.Roles[i].Name)
	}
	return names
}

type Role struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;uniqueIndex;type:varchar(32);not null"`
	Label     string    `gorm:"column:label;type:varchar(64)"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (Role) TableName() string {
	return "staff_role"
}
