package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/types"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req *Request) error {
	if req.EstablishmentID <= 0 {
		return fmt.Errorf("%w: establishment_id must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professional_id must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service_id is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time must be in HH:MM format", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer_name is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer_phone is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateNotInPast проверяет, что начало записи строго в будущем
func validateNotInPast(date time.Time, startTime types.TimeString, now time.Time) error {
	if domain.IsDateInPast(date, now) {
		return ErrSlotInPast
	}

	if domain.IsSameDay(date, now) {
		startMinutes, err := startTime.Minutes()
		if err != nil {
			return fmt.Errorf("%w: start_time must be in HH:MM format", ErrInvalidInput)
		}
		nowMinutes := now.Hour()*60 + now.Minute()
		if startMinutes <= nowMinutes {
			return ErrSlotInPast
		}
	}

	return nil
}

// validateWithinWindow проверяет, что интервал цепочки помещается
// в рабочее окно дня и не пересекает перерыв
func validateWithinWindow(window *domain.DayWindow, startTime types.TimeString, totalDuration int) error {
	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: start_time must be in HH:MM format", ErrInvalidInput)
	}

	endMinutes := startMinutes + totalDuration

	if startMinutes < window.OpenMinutes || endMinutes > window.CloseMinutes {
		return ErrSlotOutsideWorkingHours
	}

	if window.OverlapsBreak(startMinutes, endMinutes) {
		return ErrSlotOutsideWorkingHours
	}

	return nil
}
