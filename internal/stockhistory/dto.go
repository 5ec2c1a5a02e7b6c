package stockhistory

import (
	"time"

	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/enums"
	"github.com/google/uuid"
)

// Filters narrows the history listing. Every field is optional.
type Filters struct {
	ItemName string
	Type     *enums.MovementType
	From     *time.Time
	// To is inclusive. When ToWholeDay is set, every row created on To's
	// calendar day matches.
	To         *time.Time
	ToWholeDay bool
}

// RecordInput is the payload for appending an audit row directly.
type RecordInput struct {
	ItemID        uuid.UUID `json:"item_id" validate:"required"`
	ItemName      string    `json:"item_name"`
	Barcode       *string   `json:"barcode"`
	Type          string    `json:"type" validate:"required,oneof=in out"`
	Quantity      int       `json:"quantity" validate:"gt=0"`
	PreviousStock int       `json:"previous_stock" validate:"gte=0"`
	NewStock      int       `json:"new_stock" validate:"gte=0"`
	Reference     string    `json:"reference"`
}

// EntryDTO is the read shape of a stock history row.
type EntryDTO struct {
	ID            int64              `json:"id"`
	ItemID        uuid.UUID          `json:"item_id"`
	ItemName      string             `json:"item_name"`
	Barcode       *string            `json:"barcode"`
	Type          enums.MovementType `json:"type"`
	Quantity      int                `json:"quantity"`
	PreviousStock int                `json:"previous_stock"`
	NewStock      int                `json:"new_stock"`
	Reference     string             `json:"reference"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FromModel converts a persisted row.
func FromModel(m models.StockHistory) EntryDTO {
	return EntryDTO{
		ID:            m.ID,
		ItemID:        m.ItemID,
		ItemName:      m.ItemName,
		Barcode:       m.Barcode,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
	}
}
