package enums

import "fmt"

// MovementType maps to the stock_history.type CHECK constraint.
type MovementType string

const (
	MovementTypeIn  MovementType = "in"
	MovementTypeOut MovementType = "out"
)

var validMovementTypes = []MovementType{
	MovementTypeIn,
	MovementTypeOut,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value matches the canonical movement types.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// Sign returns +1 for inbound and -1 for outbound movements.
func (m MovementType) Sign() int {
	if m == MovementTypeOut {
		return -1
	}
	return 1
}

// MovementTypeForDelta infers the movement direction from a signed delta.
func MovementTypeForDelta(delta int) MovementType {
	if delta < 0 {
		return MovementTypeOut
	}
	return MovementTypeIn
}

// ParseMovementType converts raw input into MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
