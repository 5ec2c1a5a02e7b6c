package inventory

import (
	"context"

	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func sampleItems() []ItemInput {
	money := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	return []ItemInput{
		{
			Name:        "Coca Cola 500ml",
			Description: "Refreshing cola drink",
			Barcode:     "1234567890123",
			Category:    "Beverages",
			Price:       money("2.50"),
			Cost:        money("1.50"),
			Quantity:    types.IntOf(100),
			MinStock:    types.IntOf(20),
			Supplier:    "Coca Cola Company",
		},
		{
			Name:        "Bread Loaf",
			Description: "Fresh white bread",
			Barcode:     "2345678901234",
			Category:    "Bakery",
			Price:       money("3.00"),
			Cost:        money("1.80"),
			Quantity:    types.IntOf(50),
			MinStock:    types.IntOf(10),
			Supplier:    "Local Bakery",
		},
		{
			Name:        "Milk 1L",
			Description: "Fresh whole milk",
			Barcode:     "3456789012345",
			Category:    "Dairy",
			Price:       money("4.50"),
			Cost:        money("3.00"),
			Quantity:    types.IntOf(30),
			MinStock:    types.IntOf(15),
			Supplier:    "Dairy Farm Co.",
		},
	}
}

// SeedSampleItems inserts the starter catalogue when the items table is
// empty and returns how many rows were written.
func (s *service) SeedSampleItems(ctx context.Context) (int, error) {
	inserted := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.Count(ctx)
		if err != nil || count > 0 {
			return err
		}
		for _, input := range sampleItems() {
			var item *models.Item
			item, err = NewItem(input, ItemDefaults{Quantity: 1, MinStock: s.defaults.DefaultMinStock})
			if err != nil {
				return err
			}
			if err := repo.Create(ctx, item); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, classifyItemWrite(err, "seed sample items")
	}
	if inserted > 0 {
		s.logg.Info(s.logg.WithField(ctx, "items", inserted), "sample items seeded")
	}
	return inserted, nil
}
