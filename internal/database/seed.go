package database

import (
	"errors"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/models"
)

// Seed inserts baseline catalog and admin data on an empty database. It is
// idempotent: anything already present is left alone.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCatalog(db)
}

func seedAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Site",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
	}).Error
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Air Conditioners", Slug: "air-conditioners"},
		{Name: "Heat Pumps", Slug: "heat-pumps"},
		{Name: "Ventilation", Slug: "ventilation"},
		{Name: "Accessories", Slug: "accessories"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			Name:        "ClimaCool Split 12000 BTU",
			Slug:        "climacool-split-12000",
			Brand:       "ClimaCool",
			ModelNumber: "CC-S12",
			Description: "Wall-mounted inverter split system for rooms up to 35 m2.",
			CategoryID:  &categories[0].ID,
			Price:       decimal.NewFromFloat(599.99),
			Stock:       24,
		},
		{
			Name:        "ThermoFlow Air-to-Water 8kW",
			Slug:        "thermoflow-a2w-8kw",
			Brand:       "ThermoFlow",
			ModelNumber: "TF-8W",
			Description: "Monoblock air-to-water heat pump for underfloor heating.",
			CategoryID:  &categories[1].ID,
			Price:       decimal.NewFromFloat(3249.00),
			Stock:       6,
		},
		{
			Name:        "FreshBox ERV 250",
			Slug:        "freshbox-erv-250",
			Brand:       "FreshBox",
			ModelNumber: "FB-250",
			Description: "Energy recovery ventilation unit, 250 m3/h.",
			CategoryID:  &categories[2].ID,
			Price:       decimal.NewFromFloat(879.50),
			Stock:       12,
		},
	}
	return db.Create(&products).Error
}
