package domain

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents one unit of booked time for one service
type Appointment struct {
	ID              int64
	EstablishmentID int64
	CustomerID      int64
	ProfessionalID  int64
	ServiceID       int64
	AppointmentDate time.Time // только дата, wall-clock без таймзоны
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus
	Notes           *string

	// Denormalized data, resolved by joins at read time (never stored)
	CustomerName  string
	CustomerPhone string
	ServiceName   string
	ServicePrice  float64

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the appointment occupies its professional's timeline
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if start/professional can still be changed
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// EndTime returns start + duration
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// ValidStatus проверяет, что строка является допустимым статусом
func ValidStatus(s string) bool {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// AppointmentsFilter фильтр для выборки записей заведения
type AppointmentsFilter struct {
	EstablishmentID  int64              // Обязательный параметр
	ProfessionalID   *int64             // Фильтр по мастеру (опционально)
	Date             *time.Time         // Конкретная дата (опционально)
	StartDate        *time.Time         // Начало периода (опционально)
	EndDate          *time.Time         // Конец периода (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отмененные записи
}
