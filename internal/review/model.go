package review

import "time"

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SKU       string    `json:"sku"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewReviewInput struct {
	SKU     string  `json:"sku"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

type ListOptions struct {
	SKU   string
	Limit int32
	Page  int32
}
