package domain

import "time"

// ServiceOffering a sellable unit of work (haircut, beard trim, ...)
// Immutable during a booking transaction
type ServiceOffering struct {
	ID              int64
	EstablishmentID int64
	Name            string
	Category        string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Professional a staff member owning a timeline of appointments
// Conflict checks are always scoped to one professional
type Professional struct {
	ID              int64
	EstablishmentID int64
	Name            string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalDuration суммарная длительность цепочки услуг в минутах
func TotalDuration(services []*ServiceOffering) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice суммарная цена цепочки услуг
func TotalPrice(services []*ServiceOffering) float64 {
	total := 0.0
	for _, s := range services {
		total += s.Price
	}
	return total
}
