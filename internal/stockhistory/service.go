package stockhistory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/stockpos/pkg/db"
	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"github.com/angelmondragon/stockpos/pkg/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the audit trail: direct appends and filtered listing.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*EntryDTO, error)
	List(ctx context.Context, filters Filters) ([]EntryDTO, error)
}

type itemLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type movementRecorder interface {
	ObserveMovement(movementType string, units int)
}

type service struct {
	repo    Repository
	items   itemLookup
	metrics movementRecorder
	logg    *logger.Logger
}

// NewService wires a stock history service.
func NewService(repo Repository, items itemLookup, metrics movementRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock history repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item lookup required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, items: items, metrics: metrics, logg: logg}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*EntryDTO, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	movement, err := enums.ParseMovementType(input.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type")
	}
	if input.NewStock-input.PreviousStock != movement.Sign()*input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new_stock must equal previous_stock adjusted by quantity").
			WithDetails(map[string]any{
				"type":           movement,
				"quantity":       input.Quantity,
				"previous_stock": input.PreviousStock,
				"new_stock":      input.NewStock,
			})
	}

	item, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found").WithDetails(map[string]any{"item_id": input.ItemID})
		}
		return nil, db.Classify(err, "load item")
	}

	name := strings.TrimSpace(input.ItemName)
	if name == "" {
		name = item.Name
	}
	barcode := input.Barcode
	if barcode == nil {
		barcode = item.Barcode
	}

	entry := &models.StockHistory{
		ItemID:        item.ID,
		ItemName:      name,
		Barcode:       barcode,
		Type:          movement,
		Quantity:      input.Quantity,
		PreviousStock: input.PreviousStock,
		NewStock:      input.NewStock,
		Reference:     strings.TrimSpace(input.Reference),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, db.Classify(err, "insert stock history")
	}

	if s.metrics != nil {
		s.metrics.ObserveMovement(string(movement), entry.Quantity)
	}
	dto := FromModel(*entry)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]EntryDTO, error) {
	if filters.Type != nil && !filters.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement type")
	}
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) && !filters.ToWholeDay {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}

	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logg.Error(ctx, "failed to list stock history", err)
		return nil, db.Classify(err, "list stock history")
	}

	out := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}
