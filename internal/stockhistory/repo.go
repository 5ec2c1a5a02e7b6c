package stockhistory

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for stock history rows. Rows are never
// updated or deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.StockHistory) error
	List(ctx context.Context, filters Filters) ([]models.StockHistory, error)
	LatestForItem(ctx context.Context, itemID uuid.UUID) (*models.StockHistory, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock history repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.StockHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context, filters Filters) ([]models.StockHistory, error) {
	query := r.db.WithContext(ctx).Model(&models.StockHistory{})

	if name := strings.TrimSpace(filters.ItemName); name != "" {
		query = query.Where("LOWER(item_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", filters.From.UTC())
	}
	if filters.To != nil {
		if filters.ToWholeDay {
			query = query.Where("created_at < ?", filters.To.AddDate(0, 0, 1).UTC())
		} else {
			query = query.Where("created_at <= ?", filters.To.UTC())
		}
	}

	var entries []models.StockHistory
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) LatestForItem(ctx context.Context, itemID uuid.UUID) (*models.StockHistory, error) {
	var entry models.StockHistory
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Order("id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
