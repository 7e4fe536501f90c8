package domain

import "time"

// Budget caps spending in one category over [StartDate, EndDate].
type Budget struct {
	ID         string    `json:"_id" bson:"_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	CategoryID string    `json:"category_id" bson:"category_id"`
	Target     float64   `json:"target" bson:"target"`
	StartDate  time.Time `json:"start_date" bson:"start_date"`
	EndDate    time.Time `json:"end_date" bson:"end_date"`
	Notes      string    `json:"notes" bson:"notes"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Covers reports whether ts falls inside the budget window, bounds included.
func (b *Budget) Covers(ts time.Time) bool {
	return !ts.Before(b.StartDate) && !ts.After(b.EndDate)
}
