package domain

import (
	"time"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a product review submitted by a customer.
//
// Date is set once at creation and never changes on edit. The omitzero tag
// matters for the update echo path: updating a review that no longer exists
// succeeds with the submitted data echoed back, and that echo carries no date.
type Review struct {
	ID        int64     `json:"id"`
	ProductID string    `json:"productId"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date,omitzero"`
}

// IsValidRating reports whether r is inside the accepted 1..5 range.
func IsValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
