package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err is a sqlite UNIQUE/PRIMARY KEY
// violation. When constraint is provided (e.g. "items.barcode") the driver
// message must reference it.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraint == "" || strings.Contains(err.Error(), constraint)
	}
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	if liteErr.ExtendedCode != sqlite3.ErrConstraintUnique && liteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return false
	}
	return constraint == "" || strings.Contains(liteErr.Error(), constraint)
}

// IsForeignKeyViolation reports whether err is a sqlite FOREIGN KEY violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// IsCheckViolation reports whether err is a sqlite CHECK constraint violation.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintCheck
}

// Classify maps a store error onto the typed taxonomy. Errors that are already
// typed pass through untouched.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, message)
	case IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, message).WithDetails(map[string]any{
			"constraint": constraintTarget(err),
		})
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, message)
	case IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeStore, err, message)
	}
}

func constraintTarget(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, "failed: "); idx >= 0 {
		return strings.TrimSpace(msg[idx+len("failed: "):])
	}
	return ""
}
