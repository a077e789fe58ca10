package models

import (
	"time"
)

// User model
type User struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"-"`
	DeletedAt      *time.Time    `gorm:"index" json:"-"`
	Name           string        `gorm:"size:100;not null" json:"name"`
	Email          string        `gorm:"size:255;not null;unique" json:"email"`
	HashedPassword []byte        `gorm:"not null" json:"-"`
	Transactions   []Transaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	RoleID         *uint         `gorm:"index" json:"-"`
	Role           Role          `gorm:"foreignKey:RoleID;references:ID" json:"-"`
}
