package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer product review, one per user and product.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_product_user" json:"productId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user" json:"userId"`
	Author    string    `gorm:"not null" json:"author"`
	Rating    int       `gorm:"not null" json:"rating"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Question is a customer product question; the answer is filled in by an
// administrator.
type Question struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"productId"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null" json:"userId"`
	Author     string     `gorm:"not null" json:"author"`
	Body       string     `gorm:"not null" json:"body"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}
