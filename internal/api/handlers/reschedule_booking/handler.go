package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	"github.com/agendafacil/booking-service/internal/service/appointments"
	"github.com/agendafacil/booking-service/internal/service/appointments/models"
)

const (
	msgInvalidBookingID     = "ID do agendamento inválido"
	msgInvalidRequestBody   = "corpo da requisição inválido"
	msgNotFound             = "agendamento não encontrado"
	msgProfessionalNotFound = "profissional não encontrado"
	msgCannotReschedule     = "agendamento não pode ser remarcado"
	msgSlotConflict         = "horário indisponível"
	msgSlotInPast           = "este horário já passou"
	msgEstablishmentClosed  = "estabelecimento fechado neste dia"
	msgOutsideWorkingHours  = "horário fora do expediente"
	msgInvalidInput         = "dados inválidos"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := h.service.Reschedule(r.Context(), bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Appointment not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrProfessionalNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Professional not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, appointments.ErrCannotReschedule):
			h.logger.Warn("PATCH /bookings/{id} - Cannot reschedule: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgCannotReschedule)

		case errors.Is(err, appointments.ErrSlotConflict):
			h.logger.Warn("PATCH /bookings/{id} - Slot conflict: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, appointments.ErrSlotInPast):
			h.logger.Warn("PATCH /bookings/{id} - Slot in the past: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSlotInPast)

		case errors.Is(err, appointments.ErrEstablishmentClosed):
			h.logger.Warn("PATCH /bookings/{id} - Establishment closed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgEstablishmentClosed)

		case errors.Is(err, appointments.ErrSlotOutsideWorkingHours):
			h.logger.Warn("PATCH /bookings/{id} - Outside working hours: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Appointment rescheduled: booking_id=%d, date=%s, time=%s",
		bookingID, appointment.AppointmentDate, appointment.StartTime)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
