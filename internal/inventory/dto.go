package inventory

import (
	"strings"
	"time"

	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/types"
	"github.com/angelmondragon/stockpos/pkg/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is the loosely typed item payload accepted by add and update.
// NewItem is the only place it is coerced into a models.Item.
type ItemInput struct {
	ID          *uuid.UUID        `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Barcode     string            `json:"barcode"`
	Category    string            `json:"category"`
	Price       *decimal.Decimal  `json:"price"`
	Cost        *decimal.Decimal  `json:"cost"`
	Quantity    types.OptionalInt `json:"quantity"`
	MinStock    types.OptionalInt `json:"min_stock"`
	Supplier    string            `json:"supplier"`
}

// ItemDefaults fills counts that are absent or unparsable.
type ItemDefaults struct {
	Quantity int
	MinStock int
}

type normalizedItem struct {
	Name     string           `json:"name" validate:"required,max=255"`
	Barcode  string           `json:"barcode" validate:"max=64"`
	Price    *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Cost     *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
	Category string           `json:"category" validate:"max=100"`
	Supplier string           `json:"supplier" validate:"max=255"`
}

// NewItem validates input and applies the coercion rules shared by every
// write path: trimmed text, empty barcode stored as NULL, counts defaulted
// when absent or unparsable and clamped at zero, cost defaulting to zero.
func NewItem(input ItemInput, defaults ItemDefaults) (*models.Item, error) {
	norm := normalizedItem{
		Name:     strings.TrimSpace(input.Name),
		Barcode:  strings.TrimSpace(input.Barcode),
		Price:    input.Price,
		Cost:     input.Cost,
		Category: strings.TrimSpace(input.Category),
		Supplier: strings.TrimSpace(input.Supplier),
	}
	if err := validation.Struct(&norm); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:        norm.Name,
		Description: strings.TrimSpace(input.Description),
		Category:    norm.Category,
		Price:       *norm.Price,
		Cost:        decimal.Zero,
		Quantity:    clampCount(input.Quantity.Or(defaults.Quantity)),
		MinStock:    clampCount(input.MinStock.Or(defaults.MinStock)),
		Supplier:    norm.Supplier,
	}
	if norm.Cost != nil {
		item.Cost = *norm.Cost
	}
	if norm.Barcode != "" {
		barcode := norm.Barcode
		item.Barcode = &barcode
	}
	if input.ID != nil {
		if *input.ID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"id": "is invalid"})
		}
		item.ID = *input.ID
	} else {
		item.ID = uuid.New()
	}
	return item, nil
}

func clampCount(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// ItemDTO is the read shape of an item.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Barcode     *string         `json:"barcode"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
	Supplier    string          `json:"supplier"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel converts a persisted item.
func FromModel(m models.Item) ItemDTO {
	return ItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Barcode:     m.Barcode,
		Category:    m.Category,
		Price:       m.Price,
		Cost:        m.Cost,
		Quantity:    m.Quantity,
		MinStock:    m.MinStock,
		Supplier:    m.Supplier,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromModels(items []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, FromModel(item))
	}
	return out
}

// Movement is one signed quantity change applied through the ledger.
type Movement struct {
	ItemID    uuid.UUID
	Delta     int
	Type      enums.MovementType
	Reference string
}

// AdjustStockInput is the facade payload for a manual adjustment. Type may be
// empty, in which case it follows the sign of Delta.
type AdjustStockInput struct {
	ItemID    uuid.UUID `json:"item_id"`
	Delta     int       `json:"delta"`
	Type      string    `json:"type"`
	Reference string    `json:"reference"`
}

// Adjustment reports the before/after quantities of a committed movement.
type Adjustment struct {
	ItemID        uuid.UUID          `json:"item_id"`
	ItemName      string             `json:"item_name"`
	Type          enums.MovementType `json:"type"`
	Delta         int                `json:"delta"`
	PreviousStock int                `json:"previous_stock"`
	NewStock      int                `json:"new_stock"`
}

// ReceiveLine is one item in a bulk receiving.
type ReceiveLine struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

// ReceiveStockInput adds stock to many items in one transaction.
type ReceiveStockInput struct {
	Lines     []ReceiveLine `json:"lines" validate:"required,min=1,dive"`
	Reference string        `json:"reference"`
}
