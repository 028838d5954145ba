// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")

	// ErrRestaurantConflict is returned when an addition targets a different
	// restaurant than the one the cart is currently locked to.
	ErrRestaurantConflict = errors.New("cart: restaurant conflict")
)

// Line represents one unit-quantity entry of a menu item.
// Repeated additions of the same item create repeated lines; quantity is
// derived by GroupLines, never stored on the line itself.
type Line struct {
	ItemID      string `json:"itemId" firestore:"itemId"`
	Name        string `json:"name" firestore:"name"`
	Price       int64  `json:"price" firestore:"price"` // minor currency units
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	ImageRef    string `json:"imageRef,omitempty" firestore:"imageRef,omitempty"`
	IsVeg       bool   `json:"isVeg,omitempty" firestore:"isVeg,omitempty"`
}

// Cart holds the ordered line sequence plus the single restaurant the lines
// belong to.
//
// Invariant: RestaurantID is set if and only if Lines is non-empty.
// No line carries its own restaurant reference, so the mutators below are the
// only way the invariant can be kept (or broken).
type Cart struct {
	Lines        []Line `json:"cart" firestore:"cart"`
	RestaurantID string `json:"restaurantId" firestore:"restaurantId"`
}

// Empty returns a valid empty cart.
func Empty() Cart {
	return Cart{Lines: []Line{}, RestaurantID: ""}
}

// New builds a cart from a stored snapshot, defaulting missing fields.
func New(lines []Line, restaurantID string) (Cart, error) {
	c := Cart{
		Lines:        cloneLines(lines),
		RestaurantID: strings.TrimSpace(restaurantID),
	}
	// A document written before the restaurant lock existed may carry a
	// restaurantId with no lines (or the reverse); normalize instead of failing.
	if len(c.Lines) == 0 {
		c.RestaurantID = ""
	}
	if err := c.validate(); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Append adds one line for restaurantID.
// On an empty cart it locks the cart to restaurantID; on a non-empty cart the
// restaurant must match or ErrRestaurantConflict is returned with no mutation.
func (c *Cart) Append(line Line, restaurantID string) error {
	if c == nil {
		return ErrInvalidCart
	}

	rid := strings.TrimSpace(restaurantID)
	if strings.TrimSpace(line.ItemID) == "" || rid == "" {
		return ErrInvalidCart
	}

	if !c.IsEmpty() && c.RestaurantID != "" && c.RestaurantID != rid {
		return ErrRestaurantConflict
	}

	c.Lines = append(c.Lines, line)
	c.RestaurantID = rid
	return c.validate()
}

// RemoveOne removes at most one line whose ItemID matches (first match only),
// i.e. it decrements the derived quantity by one rather than dropping the
// whole group. Removing from an empty cart or a missing id is a no-op.
func (c *Cart) RemoveOne(itemID string) {
	if c == nil {
		return
	}

	id := strings.TrimSpace(itemID)
	if id == "" {
		return
	}

	for i := range c.Lines {
		if c.Lines[i].ItemID == id {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			break
		}
	}
	if len(c.Lines) == 0 {
		c.RestaurantID = ""
	}
}

// Replace discards all existing lines and seeds the cart with the single line
// for restaurantID. Used to resolve a cross-restaurant conflict or to reorder
// a single historical item.
func (c *Cart) Replace(line Line, restaurantID string) error {
	if c == nil {
		return ErrInvalidCart
	}

	rid := strings.TrimSpace(restaurantID)
	if strings.TrimSpace(line.ItemID) == "" || rid == "" {
		return ErrInvalidCart
	}

	c.Lines = []Line{line}
	c.RestaurantID = rid
	return c.validate()
}

// Clear resets the cart to the empty value.
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Lines = []Line{}
	c.RestaurantID = ""
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}

	if len(c.Lines) == 0 {
		if c.RestaurantID != "" {
			return ErrInvalidCart
		}
		return nil
	}

	if strings.TrimSpace(c.RestaurantID) == "" {
		return ErrInvalidCart
	}
	for _, ln := range c.Lines {
		if strings.TrimSpace(ln.ItemID) == "" {
			return ErrInvalidCart
		}
	}
	return nil
}

func cloneLines(src []Line) []Line {
	if len(src) == 0 {
		return []Line{}
	}
	cp := make([]Line, len(src))
	copy(cp, src)
	return cp
}
