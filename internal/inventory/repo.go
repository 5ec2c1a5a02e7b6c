package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) error
	Replace(ctx context.Context, item *models.Item) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	Search(ctx context.Context, term string) ([]models.Item, error)
	ListLowStock(ctx context.Context, threshold int) ([]models.Item, error)
	CountOrderReferences(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an item repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Replace overwrites every mutable column of the row matching item.ID.
func (r *repository) Replace(ctx context.Context, item *models.Item) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"barcode":     item.Barcode,
			"category":    item.Category,
			"price":       item.Price,
			"cost":        item.Cost,
			"quantity":    item.Quantity,
			"min_stock":   item.MinStock,
			"supplier":    item.Supplier,
			"updated_at":  time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByBarcode(ctx context.Context, barcode string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches term case-insensitively as a substring of name, description,
// barcode, or category.
func (r *repository) Search(ctx context.Context, term string) ([]models.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where(
			"LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(barcode, '')) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern, pattern,
		).
		Order("name ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListLowStock returns items at or below their own min_stock or at or below
// the global threshold, most depleted first.
func (r *repository) ListLowStock(ctx context.Context, threshold int) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("quantity <= min_stock OR quantity <= ?", threshold).
		Order("quantity ASC").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountOrderReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("item_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error
	return count, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
