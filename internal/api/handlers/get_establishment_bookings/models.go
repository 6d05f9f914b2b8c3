package get_establishment_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/service/appointments/models"
)

// ParseQuery собирает фильтр сервиса из query параметров
//
// Поддерживаемые параметры:
//   - professionalId: фильтр по мастеру
//   - date: конкретная дата YYYY-MM-DD
//   - startDate, endDate: период (указываются парой)
//   - status: pending | confirmed | completed | cancelled
//   - includeCancelled: true для включения отмененных записей
func ParseQuery(establishmentID int64, query url.Values) (*models.GetEstablishmentAppointmentsRequest, error) {
	req := &models.GetEstablishmentAppointmentsRequest{
		EstablishmentID: establishmentID,
	}

	if raw := query.Get("professionalId"); raw != "" {
		professionalID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ProfessionalID = &professionalID
	}

	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		includeCancelled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
