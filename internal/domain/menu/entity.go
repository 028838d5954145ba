// internal/domain/menu/entity.go
package menu

// Item is a read-only menu item record from the upstream menu source.
// The cart layer treats it as opaque input to addToCart/replaceCart.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // minor currency units
	Description string `json:"description,omitempty"`
	ImageRef    string `json:"imageRef,omitempty"`
	IsVeg       bool   `json:"isVeg,omitempty"`
}

// Restaurant is a read-only restaurant listing record.
type Restaurant struct {
	ID       string   `json:"id" firestore:"id"`
	Name     string   `json:"name" firestore:"name"`
	Cuisines []string `json:"cuisines,omitempty" firestore:"cuisines,omitempty"`
	Rating   float64  `json:"rating,omitempty" firestore:"rating,omitempty"`
	Area     string   `json:"area,omitempty" firestore:"area,omitempty"`
	ImageRef string   `json:"imageRef,omitempty" firestore:"imageRef,omitempty"`
}

// RestaurantMenu is the parsed result of one menu fetch: the restaurant info
// card plus the flattened item list.
type RestaurantMenu struct {
	Restaurant Restaurant `json:"restaurant"`
	Items      []Item     `json:"items"`
}
