// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, price int64) Line {
	return Line{ItemID: id, Name: "item " + id, Price: price}
}

func TestCart_Append_LocksRestaurant(t *testing.T) {
	c := Empty()

	require.NoError(t, c.Append(line("i1", 100), "r1"))
	require.NoError(t, c.Append(line("i2", 200), "r1"))

	assert.Equal(t, "r1", c.RestaurantID)
	assert.Len(t, c.Lines, 2)
}

func TestCart_Append_ConflictDoesNotMutate(t *testing.T) {
	c := Empty()
	require.NoError(t, c.Append(line("i1", 100), "r1"))
	require.NoError(t, c.Append(line("i1", 100), "r1"))
	require.NoError(t, c.Append(line("i2", 200), "r1"))

	err := c.Append(line("x", 300), "r2")
	require.ErrorIs(t, err, ErrRestaurantConflict)

	assert.Len(t, c.Lines, 3)
	assert.Equal(t, "r1", c.RestaurantID)
}

func TestCart_Append_RejectsEmptyIDs(t *testing.T) {
	c := Empty()

	assert.ErrorIs(t, c.Append(Line{}, "r1"), ErrInvalidCart)
	assert.ErrorIs(t, c.Append(line("i1", 100), ""), ErrInvalidCart)
	assert.True(t, c.IsEmpty())
}

func TestCart_RemoveOne_FirstMatchOnly(t *testing.T) {
	c := Empty()
	require.NoError(t, c.Append(line("i1", 100), "r1"))
	require.NoError(t, c.Append(line("i2", 200), "r1"))
	require.NoError(t, c.Append(line("i1", 100), "r1"))

	c.RemoveOne("i1")

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "i2", c.Lines[0].ItemID)
	assert.Equal(t, "i1", c.Lines[1].ItemID)
	assert.Equal(t, "r1", c.RestaurantID)
}

func TestCart_RemoveOne_MissingIDIsNoop(t *testing.T) {
	c := Empty()
	require.NoError(t, c.Append(line("i1", 100), "r1"))

	c.RemoveOne("nope")
	assert.Len(t, c.Lines, 1)

	c.RemoveOne("")
	assert.Len(t, c.Lines, 1)
}

func TestCart_RemoveOne_LastLineUnlocksRestaurant(t *testing.T) {
	c := Empty()
	require.NoError(t, c.Append(line("i1", 100), "r1"))

	c.RemoveOne("i1")

	assert.True(t, c.IsEmpty())
	assert.Equal(t, "", c.RestaurantID)

	// The cart can be locked to a different restaurant afterwards.
	require.NoError(t, c.Append(line("i9", 50), "r2"))
	assert.Equal(t, "r2", c.RestaurantID)
}

func TestCart_Replace_YieldsSingleLine(t *testing.T) {
	c := Empty()
	require.NoError(t, c.Append(line("i1", 100), "r1"))
	require.NoError(t, c.Append(line("i2", 200), "r1"))

	require.NoError(t, c.Replace(line("x", 300), "r2"))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "x", c.Lines[0].ItemID)
	assert.Equal(t, "r2", c.RestaurantID)
}

func TestCart_Clear(t *testing.T) {
	c := Empty()
	require.NoError(t, c.Append(line("i1", 100), "r1"))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, "", c.RestaurantID)

	// Clearing an already empty cart stays valid.
	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestNew_NormalizesLegacySnapshots(t *testing.T) {
	// restaurantId with no lines (pre-lock document) normalizes to empty.
	c, err := New(nil, "r1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "", c.RestaurantID)

	// Lines without a restaurantId are rejected.
	_, err = New([]Line{line("i1", 100)}, "")
	assert.ErrorIs(t, err, ErrInvalidCart)
}

func TestNew_CopiesInput(t *testing.T) {
	src := []Line{line("i1", 100)}
	c, err := New(src, "r1")
	require.NoError(t, err)

	src[0].ItemID = "mutated"
	assert.Equal(t, "i1", c.Lines[0].ItemID)
}

func TestGroupLines_QuantityAndOrder(t *testing.T) {
	lines := []Line{
		line("a", 100),
		line("b", 250),
		line("a", 100),
		line("c", 75),
		line("a", 100),
	}

	got := GroupLines(lines)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ItemID)
	assert.Equal(t, 3, got[0].Quantity)
	assert.Equal(t, "b", got[1].ItemID)
	assert.Equal(t, 1, got[1].Quantity)
	assert.Equal(t, "c", got[2].ItemID)
	assert.Equal(t, 1, got[2].Quantity)

	// Total quantity equals the raw line count.
	total := 0
	for _, g := range got {
		total += g.Quantity
	}
	assert.Equal(t, len(lines), total)
}

func TestGroupLines_Empty(t *testing.T) {
	assert.Empty(t, GroupLines(nil))
	assert.Empty(t, GroupLines([]Line{}))
}

func TestSubtotal(t *testing.T) {
	grouped := GroupLines([]Line{
		line("a", 100),
		line("a", 100),
		line("b", 250),
	})

	assert.Equal(t, int64(450), Subtotal(grouped))
	assert.Equal(t, int64(0), Subtotal(nil))
}
