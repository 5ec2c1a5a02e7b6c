package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/types"
)

func TestNewItemKeepsSuppliedID(t *testing.T) {
	id := uuid.New()
	item, err := NewItem(ItemInput{ID: &id, Name: "x", Price: money("0")}, ItemDefaults{Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, id, item.ID)
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.Price.IsZero())

	nilID := uuid.Nil
	_, err = NewItem(ItemInput{ID: &nilID, Name: "x", Price: money("1")}, ItemDefaults{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestNewItemUsesDefaultsOnlyWhenInvalid(t *testing.T) {
	item, err := NewItem(ItemInput{
		Name:     "x",
		Price:    money("1"),
		Quantity: types.IntOf(0),
		MinStock: types.OptionalInt{Present: true},
	}, ItemDefaults{Quantity: 9, MinStock: 4})
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, 4, item.MinStock)
}

func TestNewItemRejectsNegativeCost(t *testing.T) {
	_, err := NewItem(ItemInput{Name: "x", Price: money("1"), Cost: money("-2")}, ItemDefaults{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
