package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	Slug        string           `gorm:"uniqueIndex;not null" json:"slug"`
	Brand       string           `json:"brand,omitempty"`
	ModelNumber string           `json:"modelNumber,omitempty"`
	Description string           `json:"description,omitempty"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index" json:"categoryId,omitempty"`
	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	SaleEnabled bool             `gorm:"not null;default:false" json:"saleEnabled"`
	SalePrice   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"salePrice"`
	IsOnSale    bool             `gorm:"-" json:"isOnSale"`
	Stock       int              `gorm:"not null;default:0" json:"stock"`
	InStock     bool             `gorm:"-" json:"inStock"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	IsActive    bool             `gorm:"not null;default:true" json:"isActive"`
	IsDeleted   bool             `gorm:"not null;default:false;index" json:"isDeleted,omitempty"`
	DeletedAt   *time.Time       `json:"deletedAt,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

// ProductVariant is a sellable configuration of a product (capacity class,
// indoor/outdoor unit pairing and so on). PriceDelta is added to the
// product's effective price.
type ProductVariant struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Name       string          `gorm:"not null" json:"name"`
	SKU        string          `gorm:"uniqueIndex;not null" json:"sku"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"priceDelta"`
	Stock      int             `gorm:"not null;default:0" json:"stock"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
