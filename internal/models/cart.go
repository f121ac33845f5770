package models

// CartItem is one purchasable configuration (product + size + color) and its
// quantity within a cart. Name, price and image are denormalized snapshots
// taken when the item was added; they are not refreshed afterwards.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// SameVariant reports whether both items describe the same
// (product, size, color) configuration. The cart keeps at most one line per
// variant.
func (i CartItem) SameVariant(other CartItem) bool {
	return i.ProductID == other.ProductID && i.Size == other.Size && i.Color == other.Color
}
