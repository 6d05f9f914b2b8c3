package create_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	createBooking "github.com/agendafacil/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidEstablishmentID = "ID do estabelecimento inválido"
	msgInvalidRequestBody     = "corpo da requisição inválido"
	msgInvalidDateOrTime      = "formato de data ou horário inválido, esperado YYYY-MM-DD e HH:MM"
	msgProfessionalNotFound   = "profissional não encontrado"
	msgServiceNotFound        = "serviço não encontrado"
	msgEstablishmentClosed    = "estabelecimento fechado neste dia"
	msgOutsideWorkingHours    = "horário fora do expediente"
	msgSlotInPast             = "este horário já passou"
	msgInvalidInput           = "dados inválidos"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/establishments/{establishmentId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	establishmentID, err := strconv.ParseInt(vars["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(establishmentID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *createBooking.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			// Клиенту показываем, с кем и когда пересекается выбранный слот
			h.logger.Warn("POST /bookings - Slot conflict: establishment_id=%d, professional_id=%d, time=%s",
				establishmentID, req.ProfessionalID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict,
				fmt.Sprintf("Conflito: %s já possui horário das %s às %s",
					conflictErr.CustomerName, conflictErr.StartTime, conflictErr.EndTime))

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: establishment_id=%d, time=%s", establishmentID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, "horário indisponível")

		case errors.Is(err, createBooking.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in the past: establishment_id=%d, date=%s, time=%s",
				establishmentID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotInPast)

		case errors.Is(err, createBooking.ErrEstablishmentClosed):
			h.logger.Warn("POST /bookings - Establishment closed: establishment_id=%d, date=%s",
				establishmentID, req.Date)
			handlers.RespondBadRequest(w, msgEstablishmentClosed)

		case errors.Is(err, createBooking.ErrSlotOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: establishment_id=%d, time=%s",
				establishmentID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrProfessionalNotFound):
			h.logger.Warn("POST /bookings - Professional not found: establishment_id=%d, professional_id=%d",
				establishmentID, req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: establishment_id=%d, service_ids=%v",
				establishmentID, req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: establishment_id=%d, customer_id=%d, appointments=%d",
		establishmentID, result.CustomerID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
