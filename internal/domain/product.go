package domain

import (
	"time"
)

// CategoryAll is the wildcard category value that disables category filtering.
const CategoryAll = "All"

// Product represents a product in the catalog.
//
// AverageRating is derived state owned by the rating aggregator: it always
// equals the mean of the product's current review ratings rounded to two
// decimal places, and is nil while the product has no reviews. A nil value
// serializes as JSON null so clients can distinguish "no reviews yet" from a
// genuine zero rating.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Price         string    `json:"price"`
	Image         string    `json:"image"`
	DateAdded     time.Time `json:"dateAdded"`
	AverageRating *float64  `json:"averageRating"`
}
