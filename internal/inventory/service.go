package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/stockpos/internal/stockhistory"
	"github.com/angelmondragon/stockpos/pkg/db"
	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"github.com/angelmondragon/stockpos/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	// ReferenceItemEdit tags history rows written when an edit changes quantity.
	ReferenceItemEdit = "Item Edit"
	// ReferenceManualAddition is the default reference for received stock.
	ReferenceManualAddition = "Manual Stock Addition"
)

// Service is the inventory ledger: item records plus every operation that
// changes a stored quantity.
type Service interface {
	AddItem(ctx context.Context, input ItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemDTO, bool, error)
	DeleteItem(ctx context.Context, id uuid.UUID) (bool, error)
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (int64, error)
	AdjustStock(ctx context.Context, input AdjustStockInput) (*Adjustment, error)
	ReceiveStock(ctx context.Context, input ReceiveStockInput) ([]Adjustment, error)
	SeedSampleItems(ctx context.Context) (int, error)

	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	GetItemByBarcode(ctx context.Context, barcode string) (*ItemDTO, error)
	ListItems(ctx context.Context) ([]ItemDTO, error)
	SearchItems(ctx context.Context, term string) ([]ItemDTO, error)
	LowStockItems(ctx context.Context, threshold *int) ([]ItemDTO, error)

	// ApplyInTx applies m inside a transaction owned by the caller.
	ApplyInTx(ctx context.Context, tx *gorm.DB, m Movement) (*Adjustment, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type movementRecorder interface {
	ObserveMovement(movementType string, units int)
}

// Config carries the inventory defaults.
type Config struct {
	LowStockThreshold int
	DefaultMinStock   int
}

type service struct {
	repo     Repository
	history  stockhistory.Repository
	tx       txRunner
	metrics  movementRecorder
	logg     *logger.Logger
	defaults Config
}

// NewService wires the inventory ledger.
func NewService(repo Repository, history stockhistory.Repository, tx txRunner, metrics movementRecorder, logg *logger.Logger, cfg Config) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if history == nil {
		return nil, fmt.Errorf("stock history repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cfg.LowStockThreshold < 0 || cfg.DefaultMinStock < 0 {
		return nil, fmt.Errorf("inventory defaults must be non-negative")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     repo,
		history:  history,
		tx:       tx,
		metrics:  metrics,
		logg:     logg,
		defaults: cfg,
	}, nil
}

func (s *service) AddItem(ctx context.Context, input ItemInput) (*ItemDTO, error) {
	item, err := NewItem(input, ItemDefaults{Quantity: 1, MinStock: s.defaults.DefaultMinStock})
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, item)
	}); err != nil {
		return nil, classifyItemWrite(err, "insert item")
	}

	s.logg.Info(s.logg.WithItemID(ctx, item.ID.String()), "item added")
	dto := FromModel(*item)
	return &dto, nil
}

// UpdateItem replaces the mutable fields of an existing item. Counts missing
// from input keep their stored values. A quantity change is audited with an
// "Item Edit" history row in the same transaction. updated is false when no
// row matches id.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemDTO, bool, error) {
	if _, err := NewItem(input, ItemDefaults{}); err != nil {
		return nil, false, err
	}

	var (
		result  *models.Item
		updated bool
		moved   *models.StockHistory
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		item, err := NewItem(input, ItemDefaults{Quantity: current.Quantity, MinStock: current.MinStock})
		if err != nil {
			return err
		}
		item.ID = current.ID
		item.CreatedAt = current.CreatedAt

		rows, err := repo.Replace(ctx, item)
		if err != nil {
			return err
		}
		updated = rows > 0

		if delta := item.Quantity - current.Quantity; delta != 0 {
			moved = historyRow(item, enums.MovementTypeForDelta(delta), abs(delta), current.Quantity, item.Quantity, ReferenceItemEdit)
			if err := s.history.WithTx(tx).Create(ctx, moved); err != nil {
				return err
			}
		}

		result, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, false, classifyItemWrite(err, "update item")
	}
	if !updated {
		return nil, false, nil
	}

	if moved != nil {
		s.observe(moved.Type, moved.Quantity)
	}
	dto := FromModel(*result)
	return &dto, true, nil
}

// DeleteItem removes an item that no order line references. deleted is false
// when no row matched.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		refs, err := repo.CountOrderReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "item is referenced by order history and cannot be deleted").
				WithDetails(map[string]any{"item_id": id, "order_lines": refs})
		}

		rows, err := repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = rows > 0
		return nil
	})
	if err != nil {
		return false, db.Classify(err, "delete item")
	}
	if deleted {
		s.logg.Info(s.logg.WithItemID(ctx, id.String()), "item deleted")
	}
	return deleted, nil
}

// SetStock overwrites the stored quantity without an audit row. Callers that
// need the movement audited use AdjustStock or ReceiveStock.
func (s *service) SetStock(ctx context.Context, id uuid.UUID, quantity int) (int64, error) {
	if quantity < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative").
			WithDetails(map[string]any{"quantity": quantity})
	}
	var rows int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rows, err = s.repo.WithTx(tx).UpdateQuantity(ctx, id, quantity)
		return err
	})
	if err != nil {
		return 0, db.Classify(err, "set stock")
	}
	return rows, nil
}

func (s *service) AdjustStock(ctx context.Context, input AdjustStockInput) (*Adjustment, error) {
	movement, err := movementFromInput(input)
	if err != nil {
		return nil, err
	}

	var result *Adjustment
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.ApplyInTx(ctx, tx, movement)
		return err
	}); err != nil {
		return nil, db.Classify(err, "adjust stock")
	}

	s.observe(result.Type, abs(result.Delta))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_id":        result.ItemID.String(),
		"delta":          result.Delta,
		"previous_stock": result.PreviousStock,
		"new_stock":      result.NewStock,
	}), "stock adjusted")
	return result, nil
}

// ReceiveStock applies every line as an inbound movement. Any failure rolls
// back all lines.
func (s *service) ReceiveStock(ctx context.Context, input ReceiveStockInput) ([]Adjustment, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	var dupErr error
	seen := make(map[uuid.UUID]struct{}, len(input.Lines))
	for _, line := range input.Lines {
		if _, ok := seen[line.ItemID]; ok {
			dupErr = multierr.Append(dupErr, fmt.Errorf("item %s listed more than once", line.ItemID))
		}
		seen[line.ItemID] = struct{}{}
	}
	if dupErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, dupErr, "duplicate receive lines")
	}

	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		reference = ReferenceManualAddition
	}

	results := make([]Adjustment, 0, len(input.Lines))
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, line := range input.Lines {
			adj, err := s.ApplyInTx(ctx, tx, Movement{
				ItemID:    line.ItemID,
				Delta:     line.Quantity,
				Type:      enums.MovementTypeIn,
				Reference: reference,
			})
			if err != nil {
				return err
			}
			results = append(results, *adj)
		}
		return nil
	}); err != nil {
		return nil, db.Classify(err, "receive stock")
	}

	for _, adj := range results {
		s.observe(adj.Type, adj.Delta)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"lines": len(results), "reference": reference}), "stock received")
	return results, nil
}

// ApplyInTx reads the current quantity, rejects a negative result, writes the
// new quantity, and appends the audit row, all on tx.
func (s *service) ApplyInTx(ctx context.Context, tx *gorm.DB, m Movement) (*Adjustment, error) {
	if m.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}
	if !m.Type.IsValid() || m.Type != enums.MovementTypeForDelta(m.Delta) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement type does not match delta sign").
			WithDetails(map[string]any{"type": m.Type, "delta": m.Delta})
	}

	repo := s.repo.WithTx(tx)
	item, err := repo.FindByID(ctx, m.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found").WithDetails(map[string]any{"item_id": m.ItemID})
		}
		return nil, err
	}

	previous := item.Quantity
	next := previous + m.Delta
	if next < 0 {
		return nil, pkgerrors.InsufficientStock(item.ID.String(), item.Name, previous, abs(m.Delta))
	}

	if _, err := repo.UpdateQuantity(ctx, item.ID, next); err != nil {
		return nil, err
	}
	item.Quantity = next

	entry := historyRow(item, m.Type, abs(m.Delta), previous, next, strings.TrimSpace(m.Reference))
	if err := s.history.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}

	return &Adjustment{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Type:          m.Type,
		Delta:         m.Delta,
		PreviousStock: previous,
		NewStock:      next,
	}, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	return optionalItem(item, err, "load item")
}

func (s *service) GetItemByBarcode(ctx context.Context, barcode string) (*ItemDTO, error) {
	if barcode == "" {
		return nil, nil
	}
	item, err := s.repo.FindByBarcode(ctx, barcode)
	return optionalItem(item, err, "load item by barcode")
}

func (s *service) ListItems(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.Classify(err, "list items")
	}
	return fromModels(items), nil
}

func (s *service) SearchItems(ctx context.Context, term string) ([]ItemDTO, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListItems(ctx)
	}
	items, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, db.Classify(err, "search items")
	}
	return fromModels(items), nil
}

func (s *service) LowStockItems(ctx context.Context, threshold *int) ([]ItemDTO, error) {
	limit := s.defaults.LowStockThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must not be negative")
		}
		limit = *threshold
	}
	items, err := s.repo.ListLowStock(ctx, limit)
	if err != nil {
		return nil, db.Classify(err, "list low stock items")
	}
	return fromModels(items), nil
}

func (s *service) observe(t enums.MovementType, units int) {
	if s.metrics != nil {
		s.metrics.ObserveMovement(string(t), units)
	}
}

func movementFromInput(input AdjustStockInput) (Movement, error) {
	if input.ItemID == uuid.Nil {
		return Movement{}, pkgerrors.New(pkgerrors.CodeValidation, "item_id is required")
	}
	if input.Delta == 0 {
		return Movement{}, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}
	movementType := enums.MovementTypeForDelta(input.Delta)
	if raw := strings.TrimSpace(input.Type); raw != "" {
		parsed, err := enums.ParseMovementType(raw)
		if err != nil {
			return Movement{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type")
		}
		if parsed != movementType {
			return Movement{}, pkgerrors.New(pkgerrors.CodeValidation, "movement type does not match delta sign").
				WithDetails(map[string]any{"type": parsed, "delta": input.Delta})
		}
	}
	return Movement{
		ItemID:    input.ItemID,
		Delta:     input.Delta,
		Type:      movementType,
		Reference: input.Reference,
	}, nil
}

func historyRow(item *models.Item, t enums.MovementType, qty, previous, next int, reference string) *models.StockHistory {
	return &models.StockHistory{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Barcode:       item.Barcode,
		Type:          t,
		Quantity:      qty,
		PreviousStock: previous,
		NewStock:      next,
		Reference:     reference,
	}
}

func optionalItem(item *models.Item, err error, op string) (*ItemDTO, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.Classify(err, op)
	}
	dto := FromModel(*item)
	return &dto, nil
}

func classifyItemWrite(err error, op string) error {
	if db.IsUniqueViolation(err, "items.barcode") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "barcode already exists")
	}
	if db.IsUniqueViolation(err, "items.id") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item id already exists")
	}
	return db.Classify(err, op)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
