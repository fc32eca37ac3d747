package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "Student"
	RoleAdmin   = "Admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Role         string    `gorm:"size:50;not null" json:"role"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	IsActive     bool      `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Entities() []interface{} {
	return []interface{}{&User{}}
}
