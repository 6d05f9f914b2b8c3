package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	getAvailableSlots "github.com/agendafacil/booking-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                 string   `json:"date"`
	EstablishmentID      int64    `json:"establishmentId"`
	ProfessionalID       int64    `json:"professionalId"`
	TotalDurationMinutes int      `json:"totalDurationMinutes"`
	TotalPrice           float64  `json:"totalPrice"`
	Slots                []string `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:                 resp.Date.Format(domain.DateFormat),
		EstablishmentID:      resp.EstablishmentID,
		ProfessionalID:       resp.ProfessionalID,
		TotalDurationMinutes: resp.TotalDurationMinutes,
		TotalPrice:           resp.TotalPrice,
		Slots:                slots,
	}
}

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(establishmentID, professionalID int64, serviceIDsRaw, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	serviceIDs, err := parseServiceIDs(serviceIDsRaw)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		EstablishmentID: establishmentID,
		ProfessionalID:  professionalID,
		ServiceIDs:      serviceIDs,
		Date:            date,
	}, nil
}

// parseServiceIDs разбирает список "1,2,3" из query параметра
func parseServiceIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
