package domain

import "time"

// Customer конечный клиент заведения
// Ищется по телефону при публичном бронировании, создается по требованию
type Customer struct {
	ID              int64
	EstablishmentID int64
	Name            string
	Phone           string
	Email           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
