package get_establishment_bookings

import (
	"context"

	"github.com/agendafacil/booking-service/internal/service/appointments/models"
)

type AppointmentService interface {
	GetEstablishmentAppointments(ctx context.Context, req *models.GetEstablishmentAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
