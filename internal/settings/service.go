package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/stockpos/pkg/db"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"gorm.io/gorm"
)

// Well-known setting keys.
const (
	KeyCompanyName    = "companyName"
	KeyTRNNumber      = "trnNumber"
	KeyCurrencyCode   = "currencyCode"
	KeyCurrencySymbol = "currencySymbol"
	KeyTaxRate        = "taxRate"
	KeyAddress        = "address"
	KeyPhone          = "phone"
	KeyEmail          = "email"
)

// Defaults returns the first-run settings.
func Defaults() map[string]string {
	return map[string]string{
		KeyCompanyName:    "INVENTORY MANAGEMENT SYSTEM",
		KeyTRNNumber:      "",
		KeyCurrencyCode:   "$",
		KeyCurrencySymbol: "$",
		KeyTaxRate:        "10",
		KeyAddress:        "",
		KeyPhone:          "",
		KeyEmail:          "",
	}
}

// Service is the settings store.
type Service interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
	InitializeDefaults(ctx context.Context) (int, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the settings store.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// Get returns the stored value and whether key exists.
func (s *service) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return "", false, err
	}
	setting, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, db.Classify(err, "load setting")
	}
	return setting.Value, true, nil
}

func (s *service) Set(ctx context.Context, key, value string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Upsert(ctx, key, value)
	}); err != nil {
		return db.Classify(err, "save setting")
	}
	s.logg.Info(s.logg.WithField(ctx, "key", key), "setting saved")
	return nil
}

func (s *service) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.Classify(err, "list settings")
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// InitializeDefaults inserts every default key that is not stored yet and
// returns how many were added. Existing values are never overwritten.
func (s *service) InitializeDefaults(ctx context.Context) (int, error) {
	var added int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for key, value := range Defaults() {
			inserted, err := repo.InsertMissing(ctx, key, value)
			if err != nil {
				return err
			}
			if inserted {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, db.Classify(err, "initialize settings")
	}
	if added > 0 {
		s.logg.Info(s.logg.WithField(ctx, "added", added), "default settings initialized")
	}
	return added, nil
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	return key, nil
}
