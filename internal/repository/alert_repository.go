package repository

import (
	"context"
	"errors"

	"github.com/skproperty/brokerage-api/internal/models"
	"gorm.io/gorm"
)

// AlertRepository defines the interface for operational alert data access
type AlertRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Alert, error)
	List(ctx context.Context, query *ListQuery) ([]models.Alert, int64, error)
	Create(ctx context.Context, alert *models.Alert) error
	Update(ctx context.Context, alert *models.Alert) error
	CountUnread(ctx context.Context) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) FindByID(ctx context.Context, id uint) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.WithContext(ctx).First(&alert, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) List(ctx context.Context, query *ListQuery) ([]models.Alert, int64, error) {
	var alerts []models.Alert
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Alert{})

	if query.Filters["alert_type"] != "" {
		db = db.Where("alert_type = ?", query.Filters["alert_type"])
	}
	if query.Filters["unread"] == "true" {
		db = db.Where("read_at IS NULL")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&alerts).Error

	return alerts, total, err
}

func (r *alertRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) Update(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *alertRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}
