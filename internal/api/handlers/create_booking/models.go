package create_booking

import (
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	createBooking "github.com/agendafacil/booking-service/internal/usecase/create_booking"
	"github.com/agendafacil/booking-service/pkg/types"
)

// CustomerPayload данные клиента в теле запроса
type CustomerPayload struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProfessionalID int64           `json:"professionalId"`
	Date           string          `json:"date"`      // "2025-10-15"
	StartTime      string          `json:"startTime"` // "10:00"
	ServiceIDs     []int64         `json:"serviceIds"`
	Customer       CustomerPayload `json:"customer"`
	Notes          *string         `json:"notes,omitempty"`
}

// CreatedAppointmentPayload одна созданная запись цепочки
type CreatedAppointmentPayload struct {
	ID              int64   `json:"id"`
	ServiceID       int64   `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	EstablishmentID      int64                       `json:"establishmentId"`
	ProfessionalID       int64                       `json:"professionalId"`
	CustomerID           int64                       `json:"customerId"`
	CustomerName         string                      `json:"customerName"`
	CustomerPhone        string                      `json:"customerPhone"`
	Date                 string                      `json:"date"`
	StartTime            string                      `json:"startTime"`
	EndTime              string                      `json:"endTime"`
	TotalDurationMinutes int                         `json:"totalDurationMinutes"`
	TotalPrice           float64                     `json:"totalPrice"`
	Appointments         []CreatedAppointmentPayload `json:"appointments"`
	CreatedAt            string                      `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(establishmentID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		EstablishmentID: establishmentID,
		ProfessionalID:  r.ProfessionalID,
		ServiceIDs:      r.ServiceIDs,
		Date:            date,
		StartTime:       startTime,
		CustomerName:    r.Customer.Name,
		CustomerPhone:   r.Customer.Phone,
		CustomerEmail:   r.Customer.Email,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	appointments := make([]CreatedAppointmentPayload, len(resp.Appointments))
	for i, apt := range resp.Appointments {
		appointments[i] = CreatedAppointmentPayload{
			ID:              apt.ID,
			ServiceID:       apt.ServiceID,
			ServiceName:     apt.ServiceName,
			ServicePrice:    apt.ServicePrice,
			StartTime:       apt.StartTime.String(),
			DurationMinutes: apt.DurationMinutes,
			Status:          apt.Status,
		}
	}

	return &BookingResponse{
		EstablishmentID:      resp.EstablishmentID,
		ProfessionalID:       resp.ProfessionalID,
		CustomerID:           resp.CustomerID,
		CustomerName:         resp.CustomerName,
		CustomerPhone:        resp.CustomerPhone,
		Date:                 resp.Date.Format(domain.DateFormat),
		StartTime:            resp.StartTime.String(),
		EndTime:              resp.EndTime.String(),
		TotalDurationMinutes: resp.TotalDurationMinutes,
		TotalPrice:           resp.TotalPrice,
		Appointments:         appointments,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
	}
}
