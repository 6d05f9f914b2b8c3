package get_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
)

const (
	msgInvalidEstablishmentID = "ID do estabelecimento inválido"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	establishmentID, err := strconv.ParseInt(vars["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/schedule - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	schedule, err := h.service.Get(r.Context(), establishmentID)
	if err != nil {
		h.logger.Error("GET /establishments/{id}/schedule - Failed to get schedule: establishment_id=%d, error=%v",
			establishmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /establishments/{id}/schedule - Schedule retrieved: establishment_id=%d", establishmentID)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
