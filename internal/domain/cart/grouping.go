// internal/domain/cart/grouping.go
package cart

// GroupedLine is one display record per distinct itemId, carrying all fields
// of the first-seen line for that id plus the derived quantity.
type GroupedLine struct {
	Line
	Quantity int `json:"quantity" firestore:"quantity"`
}

// GroupLines collapses the ordered line sequence into one record per distinct
// itemId. Output order follows first-occurrence order of each id.
//
// The transform is pure and stateless; consumers recompute it on every read
// rather than caching it, since any mutation invalidates the result.
func GroupLines(lines []Line) []GroupedLine {
	if len(lines) == 0 {
		return []GroupedLine{}
	}

	idx := map[string]int{}
	out := make([]GroupedLine, 0, len(lines))

	for _, ln := range lines {
		if i, ok := idx[ln.ItemID]; ok {
			out[i].Quantity++
			continue
		}
		idx[ln.ItemID] = len(out)
		out = append(out, GroupedLine{Line: ln, Quantity: 1})
	}
	return out
}

// Subtotal sums price * quantity over the grouped view, in minor units.
func Subtotal(grouped []GroupedLine) int64 {
	var sum int64
	for _, g := range grouped {
		sum += g.Price * int64(g.Quantity)
	}
	return sum
}
