package get_available_slots

import (
	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/types"
)

// generateSlots перебирает кандидатов с шагом slotCadence внутри рабочего окна
// и оставляет только те, где цепочка услуг помещается целиком
func (uc *UseCase) generateSlots(
	window *domain.DayWindow,
	appointments []*domain.Appointment,
	req *Request,
	totalDuration int,
) ([]types.TimeString, error) {
	now := uc.timeProvider.Now()
	isToday := domain.IsSameDay(req.Date, now)
	nowMinutes := now.Hour()*60 + now.Minute()

	slots := make([]types.TimeString, 0)

	// Полностью прошедшая дата: ни один кандидат не в будущем
	if domain.IsDateInPast(req.Date, now) {
		return slots, nil
	}

	for start := window.OpenMinutes; start+totalDuration <= window.CloseMinutes; start += uc.slotCadence {
		end := start + totalDuration

		if window.OverlapsBreak(start, end) {
			continue
		}

		// Слоты в прошлом не показываем. Сравнение идет с точностью до минуты:
		// секунды now отбрасываются, поэтому слот ровно на текущей минуте
		// считается уже прошедшим (то же правило, что в validateNotInPast)
		if isToday && start <= nowMinutes {
			continue
		}

		startTime, err := types.FromMinutes(start)
		if err != nil {
			return nil, err
		}

		conflict, err := domain.FindConflict(appointments, req.ProfessionalID, req.Date, startTime, totalDuration, nil)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			continue
		}

		slots = append(slots, startTime)
	}

	return slots, nil
}
