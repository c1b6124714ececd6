package cart

import (
	"time"

	"vietcart-be/internal/product"
)

type CartItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	Color     *string   `json:"color,omitempty"`
	Size      *string   `json:"size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *product.Product `json:"product,omitempty"`
}

type AddToCartParams struct {
	UserID   int64
	SKU      string
	Quantity int
	Color    *string
	Size     *string
}

type RemoveFromCartParams struct {
	UserID int64
	SKU    string
	Color  *string
	Size   *string
}
