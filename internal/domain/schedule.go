package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// ErrInvalidSchedule возвращается при некорректной конфигурации рабочих часов
// (непарсируемое время, open >= close, перерыв вне рабочего окна)
// Движок не генерирует слоты по сломанному расписанию - ошибка всплывает наверх
var ErrInvalidSchedule = errors.New("domain: invalid schedule configuration")

// Schedule рабочие часы заведения на один день недели
// professional_id оставлен в модели для индивидуальных графиков мастеров,
// но resolver читает только общие строки заведения (professional_id IS NULL)
type Schedule struct {
	ID              int64
	EstablishmentID int64
	ProfessionalID  *int64
	DayOfWeek       int // 0 = воскресенье ... 6 = суббота
	IsOpen          bool
	OpenTime        types.TimeString
	CloseTime       types.TimeString
	BreakStart      *types.TimeString
	BreakEnd        *types.TimeString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BreakWindow перерыв в минутах с полуночи
type BreakWindow struct {
	StartMinutes int
	EndMinutes   int
}

// DayWindow рабочее окно дня в минутах с полуночи
type DayWindow struct {
	OpenMinutes  int
	CloseMinutes int
	Break        *BreakWindow
}

// OverlapsBreak проверяет пересечение интервала [startMinutes, endMinutes)
// с перерывом. Полуоткрытые интервалы: слот, заканчивающийся ровно в начале
// перерыва (или начинающийся ровно в его конце), не пересекается
func (w *DayWindow) OverlapsBreak(startMinutes, endMinutes int) bool {
	if w.Break == nil {
		return false
	}
	return startMinutes < w.Break.EndMinutes && endMinutes > w.Break.StartMinutes
}

// ResolveDayWindow определяет рабочее окно заведения на дату
// Возвращает (nil, nil) если заведение закрыто в этот день
// (нет строки расписания или is_open = false)
func ResolveDayWindow(schedules []*Schedule, date time.Time) (*DayWindow, error) {
	weekday := int(date.Weekday())

	var daySchedule *Schedule
	for _, s := range schedules {
		if s.DayOfWeek == weekday {
			daySchedule = s
			break
		}
	}

	if daySchedule == nil || !daySchedule.IsOpen {
		return nil, nil
	}

	openMinutes, err := daySchedule.OpenTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: open_time for day %d: %v", ErrInvalidSchedule, weekday, err)
	}

	closeMinutes, err := daySchedule.CloseTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: close_time for day %d: %v", ErrInvalidSchedule, weekday, err)
	}

	if openMinutes >= closeMinutes {
		return nil, fmt.Errorf("%w: open_time %s is not before close_time %s",
			ErrInvalidSchedule, daySchedule.OpenTime, daySchedule.CloseTime)
	}

	window := &DayWindow{
		OpenMinutes:  openMinutes,
		CloseMinutes: closeMinutes,
	}

	// Перерыв валиден только парой
	if (daySchedule.BreakStart == nil) != (daySchedule.BreakEnd == nil) {
		return nil, fmt.Errorf("%w: break_start and break_end must be set together", ErrInvalidSchedule)
	}

	if daySchedule.BreakStart != nil && daySchedule.BreakEnd != nil {
		breakStart, err := daySchedule.BreakStart.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: break_start for day %d: %v", ErrInvalidSchedule, weekday, err)
		}

		breakEnd, err := daySchedule.BreakEnd.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: break_end for day %d: %v", ErrInvalidSchedule, weekday, err)
		}

		if breakStart >= breakEnd {
			return nil, fmt.Errorf("%w: break_start %s is not before break_end %s",
				ErrInvalidSchedule, *daySchedule.BreakStart, *daySchedule.BreakEnd)
		}

		if breakStart < openMinutes || breakEnd > closeMinutes {
			return nil, fmt.Errorf("%w: break [%s, %s) is outside working hours [%s, %s)",
				ErrInvalidSchedule, *daySchedule.BreakStart, *daySchedule.BreakEnd,
				daySchedule.OpenTime, daySchedule.CloseTime)
		}

		window.Break = &BreakWindow{StartMinutes: breakStart, EndMinutes: breakEnd}
	}

	return window, nil
}
