package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is the shipping destination embedded into an order. It is a value,
// not a standalone aggregate: editing the user's address book never alters
// orders already placed.
type Address struct {
	FirstName    string `gorm:"not null" json:"firstName"`
	LastName     string `gorm:"not null" json:"lastName"`
	AddressLine1 string `gorm:"not null" json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `gorm:"not null" json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `gorm:"not null" json:"postalCode"`
	Country      string `gorm:"not null" json:"country"`
	Phone        string `json:"phone,omitempty"`
}

// Order is the persisted result of a checkout. Monetary columns are
// fixed-point decimals; Total is derived at creation and never independently
// mutated. Version backs optimistic concurrency on status transitions.
type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	CustomerEmail  string          `gorm:"not null" json:"customerEmail"`
	CustomerPhone  string          `json:"customerPhone,omitempty"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shippingCost"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"taxAmount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discountAmount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Currency       string          `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	ShippingMethod string          `gorm:"type:varchar(20);not null" json:"shippingMethod"`
	ShippingAddr   Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	TrackingNumber *string         `json:"trackingNumber,omitempty"`
	PaymentRef     *string         `gorm:"uniqueIndex" json:"-"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Version        int             `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Events         []OrderEvent    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
}

// OrderItem is a line-item snapshot. Product fields are denormalized at order
// time so later catalog edits do not alter history; rows are immutable after
// the order is created.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"productId"`
	ProductName string          `gorm:"not null" json:"productName"`
	ProductSlug string          `gorm:"not null" json:"productSlug"`
	VariantID   *uuid.UUID      `gorm:"type:uuid" json:"variantId,omitempty"`
	VariantName string          `json:"variantName,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"lineTotal"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// OrderEvent is an append-only audit entry. Rows are never updated or
// deleted; each status transition appends exactly one.
type OrderEvent struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"orderId"`
	Status      OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Description string      `json:"description,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}

// OrderSequence backs human-readable order numbers, one counter per day key.
type OrderSequence struct {
	DayKey     string `gorm:"primaryKey"`
	LastNumber int64  `gorm:"not null"`
}
