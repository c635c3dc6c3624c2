package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/models"
)

// ListParams filters and sorts an order listing.
type ListParams struct {
	Status  *models.OrderStatus
	From    *time.Time
	To      *time.Time
	Search  string
	SortBy  string
	SortDir string
	Page    int
	Limit   int
}

// Meta is the page metadata returned alongside a listing.
type Meta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalCount      int64 `json:"totalCount"`
	TotalPages      int64 `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func computeMeta(total int64, page, limit int) Meta {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Meta{
		Page:            page,
		Limit:           limit,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasNextPage:     int64(page) < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}
}

var sortColumns = map[string]string{
	"date":   "created_at",
	"total":  "total",
	"status": "status",
}

// List returns the user's orders, filtered and paginated.
func (s *Service) List(ctx context.Context, userID uuid.UUID, params ListParams) ([]models.Order, Meta, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)
	return s.list(query, params)
}

// ListAll is the back-office listing across all users.
func (s *Service) ListAll(ctx context.Context, params ListParams) ([]models.Order, Meta, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	return s.list(query, params)
}

func (s *Service) list(query *gorm.DB, params ListParams) ([]models.Order, Meta, error) {
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at <= ?", *params.To)
	}
	if params.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Meta{}, err
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if params.SortDir == "asc" {
		direction = "ASC"
	}

	var results []models.Order
	offset := (params.Page - 1) * params.Limit
	err := query.
		Preload("Items").
		Order(column + " " + direction).
		Offset(offset).
		Limit(params.Limit).
		Find(&results).Error
	if err != nil {
		return nil, Meta{}, err
	}

	return results, computeMeta(total, params.Page, params.Limit), nil
}

// Get loads one order with items and events, scoped to its owner. A missing
// id and someone else's order are indistinguishable to the caller.
func (s *Service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetAny is the back-office variant of Get, without the ownership scope.
func (s *Service) GetAny(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
