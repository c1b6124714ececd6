package product

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Product prices are integer VND. SalePrice == 0 means no markdown and the
// customer pays OriginalPrice.
type Product struct {
	ID            int64     `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	OriginalPrice int64     `json:"original_price"`
	SalePrice     int64     `json:"sale_price"`
	Stock         int       `json:"stock"`
	Colors        []string  `json:"colors"`
	Sizes         []string  `json:"sizes"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UnitPrice is the actual amount charged per unit.
func (p *Product) UnitPrice() int64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.OriginalPrice
}

// HasColor reports whether the color is offered; products without a color
// list accept any request that omits the color.
func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

type ListOptions struct {
	Search          string
	IncludeDisabled bool
	Limit           int32
	Page            int32
}

type NewProductInput struct {
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	OriginalPrice int64    `json:"original_price"`
	SalePrice     int64    `json:"sale_price"`
	Stock         int      `json:"stock"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
}

type UpdateProductInput struct {
	SKU           string   `json:"-"`
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	OriginalPrice *int64   `json:"original_price"`
	SalePrice     *int64   `json:"sale_price"`
	Stock         *int     `json:"stock"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	Status        *Status  `json:"status"`
}
