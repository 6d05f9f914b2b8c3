package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	getAvailableSlots "github.com/agendafacil/booking-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidEstablishmentID = "ID do estabelecimento inválido"
	msgInvalidProfessionalID  = "ID do profissional inválido"
	msgInvalidDate            = "formato de data inválido, esperado YYYY-MM-DD"
	msgInvalidServiceIDs      = "lista de serviços inválida, esperado serviceIds=1,2"
	msgProfessionalNotFound   = "profissional não encontrado"
	msgServiceNotFound        = "serviço não encontrado"
	msgInvalidInput           = "parâmetros inválidos"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	establishmentID, err := strconv.ParseInt(vars["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	query := r.URL.Query()

	professionalID, err := strconv.ParseInt(query.Get("professionalId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	dateStr := query.Get("date")
	serviceIDsRaw := query.Get("serviceIds")

	useCaseReq, err := ToUseCaseRequest(establishmentID, professionalID, serviceIDsRaw, dateStr)
	if err != nil {
		h.logger.Warn("GET /available-slots - Failed to parse request: %v", err)
		if dateStr == "" || len(dateStr) != len("2006-01-02") {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrProfessionalNotFound):
			h.logger.Warn("GET /available-slots - Professional not found: establishment_id=%d, professional_id=%d",
				establishmentID, professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: establishment_id=%d, service_ids=%s",
				establishmentID, serviceIDsRaw)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			// Сломанное расписание и ошибки БД - проблема на нашей стороне
			h.logger.Error("GET /available-slots - Failed to get slots: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Found %d slots: establishment_id=%d, professional_id=%d, date=%s",
		len(result.Slots), establishmentID, professionalID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
