package model

// Service is an offered treatment. Price is in integer currency units,
// duration in minutes. Services referenced by bookings are never
// mutated in place.
type Service struct {
	Base
	Category        string `db:"category" json:"category"`
	Name            string `db:"name" json:"name"`
	Description     string `db:"description" json:"description,omitempty"`
	Price           int64  `db:"price" json:"price"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
}
