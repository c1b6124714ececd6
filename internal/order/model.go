package order

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingSameDay  ShippingMethod = "same_day"
)

// Flat shipping fees in VND per method.
var shippingFees = map[ShippingMethod]int64{
	ShippingStandard: 20000,
	ShippingExpress:  40000,
	ShippingSameDay:  60000,
}

// Fee returns the flat fee for the method; ok is false for unknown methods.
func (m ShippingMethod) Fee() (int64, bool) {
	fee, ok := shippingFees[m]
	return fee, ok
}

// LineItemRequest is one requested cart line, validated against the catalog
// at pricing time.
type LineItemRequest struct {
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Color    *string `json:"color,omitempty"`
	Size     *string `json:"size,omitempty"`
}

// OrderItem is a persisted order line. Price is the actual unit amount
// charged (sale price when marked down, original price otherwise).
type OrderItem struct {
	ID             int64   `json:"id"`
	OrderID        int64   `json:"order_id"`
	ProductID      int64   `json:"product_id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	Price          int64   `json:"price"`
	OriginalPrice  int64   `json:"original_price"`
	SalePrice      int64   `json:"sale_price"`
	DirectDiscount int64   `json:"direct_discount"`
	Color          *string `json:"color,omitempty"`
	Size           *string `json:"size,omitempty"`
}

// StatusEntry is one append-only audit record; the newest entry always
// matches the order's current status.
type StatusEntry struct {
	ID        int64       `json:"id"`
	OrderID   int64       `json:"order_id"`
	Status    OrderStatus `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
	UpdatedBy int64       `json:"updated_by"`
	Note      *string     `json:"note,omitempty"`
}

type Order struct {
	ID                  int64          `json:"id"`
	ShortID             string         `json:"short_id"`
	UserID              int64          `json:"user_id"`
	Items               []OrderItem    `json:"items"`
	Subtotal            int64          `json:"subtotal"`
	DirectDiscount      int64          `json:"direct_discount"`
	CouponDiscount      int64          `json:"coupon_discount"`
	ShippingFee         int64          `json:"shipping_fee"`
	TotalPrice          int64          `json:"total_price"`
	ShippingAddress     string         `json:"shipping_address"`
	PaymentMethod       string         `json:"payment_method"`
	PaymentStatus       string         `json:"payment_status"`
	ShippingMethod      ShippingMethod `json:"shipping_method"`
	CouponID            *int64         `json:"coupon_id,omitempty"`
	CouponCode          *string        `json:"coupon_code,omitempty"`
	Status              OrderStatus    `json:"status"`
	StatusHistory       []StatusEntry  `json:"status_history"`
	IsTotalSpentUpdated bool           `json:"is_total_spent_updated"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Quote is the result of a pricing computation, before anything is persisted.
type Quote struct {
	Items          []OrderItem `json:"items"`
	Subtotal       int64       `json:"subtotal"`
	DirectDiscount int64       `json:"direct_discount"`
	CouponDiscount int64       `json:"coupon_discount"`
	ShippingFee    int64       `json:"shipping_fee"`
	TotalPrice     int64       `json:"total_price"`
	CouponID       *int64      `json:"-"`
	CouponCode     *string     `json:"coupon_code,omitempty"`
}

// NewShortID builds the human-readable order id, e.g. "DH-01J8ZK7S9QT3".
func NewShortID(now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	return fmt.Sprintf("DH-%s", id.String()[:12])
}

type ListOptions struct {
	UserID *int64
	Status *OrderStatus
	Limit  int32
	Page   int32
}
