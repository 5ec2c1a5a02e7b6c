package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/stockpos/internal/inventory"
	"github.com/angelmondragon/stockpos/pkg/db"
	"github.com/angelmondragon/stockpos/pkg/db/models"
	"github.com/angelmondragon/stockpos/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"github.com/angelmondragon/stockpos/pkg/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferencePrefix prefixes the stock history reference written for each sold
// line.
const ReferencePrefix = "Order #"

// Service processes sales and exposes order read models.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	ListOrders(ctx context.Context) ([]OrderSummary, error)
	RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockLedger interface {
	ApplyInTx(ctx context.Context, tx *gorm.DB, m inventory.Movement) (*inventory.Adjustment, error)
}

type salesRecorder interface {
	ObserveOrder(duration time.Duration, units int, failureCode string)
	ObserveMovement(movementType string, units int)
}

type service struct {
	repo    Repository
	ledger  stockLedger
	tx      txRunner
	metrics salesRecorder
	logg    *logger.Logger
	numbers *numberGenerator
	now     func() time.Time
}

// NewService wires the order processor.
func NewService(repo Repository, ledger stockLedger, tx txRunner, metrics salesRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    repo,
		ledger:  ledger,
		tx:      tx,
		metrics: metrics,
		logg:    logg,
		numbers: newNumberGenerator(time.Now),
		now:     time.Now,
	}, nil
}

// CreateOrder records the header, every line, every stock decrement and every
// audit row in one transaction. Any failing line rolls back the whole sale.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	start := s.now()

	order, lines, err := s.buildOrder(input)
	if err != nil {
		s.observeFailure(start, err)
		return nil, err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	var (
		units       int
		adjustments []*inventory.Adjustment
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}

		reference := ReferencePrefix + order.OrderNumber
		for i := range lines {
			line := &lines[i]
			if err := repo.CreateLine(ctx, line); err != nil {
				if db.IsForeignKeyViolation(err) {
					return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found").
						WithDetails(map[string]any{"item_id": line.ItemID})
				}
				return err
			}

			adj, err := s.ledger.ApplyInTx(ctx, tx, inventory.Movement{
				ItemID:    line.ItemID,
				Delta:     -line.Quantity,
				Type:      enums.MovementTypeOut,
				Reference: reference,
			})
			if err != nil {
				return err
			}
			adjustments = append(adjustments, adj)
			units += line.Quantity
		}
		return nil
	})
	if err != nil {
		err = db.Classify(err, "create order")
		s.observeFailure(start, err)
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStore {
			s.logg.Error(ctx, "order transaction failed", err)
		} else {
			s.logg.Warn(ctx, "order rejected")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveOrder(s.now().Sub(start), units, "")
		for _, adj := range adjustments {
			s.metrics.ObserveMovement(string(adj.Type), -adj.Delta)
		}
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_number": order.OrderNumber,
		"lines":        len(lines),
		"units":        units,
	}), "order created")

	return newOrderDTO(*order, s.lineDTOs(lines, adjustments)), nil
}

func (s *service) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	return s.RecentOrders(ctx, 0)
}

// RecentOrders returns at most limit summaries, newest first. A non-positive
// limit returns every order.
func (s *service) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	out, err := s.repo.ListSummaries(ctx, limit)
	if err != nil {
		return nil, db.Classify(err, "list orders")
	}
	return out, nil
}

// GetOrder returns nil without error when no order matches id.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.Classify(err, "load order")
	}
	lines, err := s.repo.FindLines(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "load order lines")
	}
	return newOrderDTO(*order, lines), nil
}

func (s *service) buildOrder(input CreateOrderInput) (*models.Order, []models.OrderItem, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, nil, err
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    s.numbers.Next(),
		CustomerName:   trimmedOrNil(input.CustomerName),
		CustomerPhone:  trimmedOrNil(input.CustomerPhone),
		TotalAmount:    *input.TotalAmount,
		TaxAmount:      decimalOrZero(input.TaxAmount),
		DiscountAmount: decimalOrZero(input.DiscountAmount),
		PaymentMethod:  method,
		Status:         enums.OrderStatusCompleted,
	}

	lines := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		total := decimal.NewFromInt(int64(in.Quantity)).Mul(*in.UnitPrice)
		if in.TotalPrice != nil {
			total = *in.TotalPrice
		}
		lines = append(lines, models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ItemID:     in.ItemID,
			Quantity:   in.Quantity,
			UnitPrice:  *in.UnitPrice,
			TotalPrice: total,
		})
	}
	return order, lines, nil
}

func (s *service) lineDTOs(lines []models.OrderItem, adjustments []*inventory.Adjustment) []LineDTO {
	out := make([]LineDTO, 0, len(lines))
	for i, line := range lines {
		dto := LineDTO{
			ID:         line.ID,
			OrderID:    line.OrderID,
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice,
		}
		if i < len(adjustments) && adjustments[i] != nil {
			dto.ItemName = adjustments[i].ItemName
		}
		out = append(out, dto)
	}
	return out
}

func (s *service) observeFailure(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	code := string(pkgerrors.CodeInternal)
	if typed := pkgerrors.As(err); typed != nil {
		code = string(typed.Code())
	}
	s.metrics.ObserveOrder(s.now().Sub(start), 0, code)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func decimalOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
