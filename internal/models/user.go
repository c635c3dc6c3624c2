package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is an application account. Role separates customers from back-office
// administrators; there is no inheritance hierarchy behind it.
type User struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"not null" json:"-"`
	FirstName    string        `gorm:"not null" json:"firstName"`
	LastName     string        `gorm:"not null" json:"lastName"`
	Phone        string        `json:"phone,omitempty"`
	Role         string        `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	IsActive     bool          `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
	Addresses    []UserAddress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

// UserAddress is an address-book entry. Orders copy the chosen address into
// their own embedded value at checkout.
type UserAddress struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Address   `gorm:"embedded"`
	Label     string    `json:"label,omitempty"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

type RefreshToken struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	TokenHash  string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expiresAt"`
	Revoked    bool       `gorm:"not null;default:false" json:"revoked"`
	ReplacedBy *uuid.UUID `gorm:"type:uuid" json:"replacedBy,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}
