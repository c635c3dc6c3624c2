package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InstallationReceived  = "received"
	InstallationScheduled = "scheduled"
	InstallationCompleted = "completed"
	InstallationDeclined  = "declined"
)

var installationStatuses = []string{
	InstallationReceived,
	InstallationScheduled,
	InstallationCompleted,
	InstallationDeclined,
}

func ValidInstallationStatus(status string) bool {
	for _, s := range installationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// InstallationRequest is a request to have purchased HVAC equipment installed.
// The order reference is optional so customers can ask about installation
// before buying.
type InstallationRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index" json:"orderId,omitempty"`
	ContactName   string     `gorm:"not null" json:"contactName"`
	ContactPhone  string     `gorm:"not null" json:"contactPhone"`
	City          string     `gorm:"not null" json:"city"`
	AddressLine   string     `gorm:"not null" json:"addressLine"`
	PropertyType  string     `json:"propertyType,omitempty"`
	PreferredDate *time.Time `json:"preferredDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'received'" json:"status"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
