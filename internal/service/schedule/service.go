package schedule

import (
	"context"
	"fmt"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/service/schedule/models"
)

// Service сервис для работы с расписанием заведения
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get возвращает недельное расписание заведения
// Ответ всегда содержит 7 дней: дни без строки в БД отдаются закрытыми
func (s *Service) Get(ctx context.Context, establishmentID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for establishment=%d", establishmentID)

	if establishmentID <= 0 {
		return nil, fmt.Errorf("%w: establishment_id must be positive", ErrInvalidInput)
	}

	schedules, err := s.scheduleRepo.GetByEstablishment(ctx, establishmentID)
	if err != nil {
		s.logger.Error("Get: repository error for establishment=%d: %v", establishmentID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedules(establishmentID, schedules), nil
}

// Update заменяет недельное расписание заведения
// Все дни валидируются до записи, upsert'ы выполняются в одной транзакции:
// невалидный день не оставляет расписание наполовину обновленным
func (s *Service) Update(ctx context.Context, establishmentID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule for establishment=%d, days=%d", establishmentID, len(req.Days))

	if establishmentID <= 0 {
		return nil, fmt.Errorf("%w: establishment_id must be positive", ErrInvalidInput)
	}

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}

	seen := make(map[int]bool, len(req.Days))
	schedules := make([]*domain.Schedule, 0, len(req.Days))

	for i := range req.Days {
		day := &req.Days[i]

		if day.DayOfWeek < domain.MinDayOfWeek || day.DayOfWeek > domain.MaxDayOfWeek {
			return nil, fmt.Errorf("%w: day_of_week must be between %d and %d",
				ErrInvalidInput, domain.MinDayOfWeek, domain.MaxDayOfWeek)
		}

		if seen[day.DayOfWeek] {
			return nil, fmt.Errorf("%w: duplicate day_of_week %d", ErrInvalidInput, day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true

		sched := day.ToDomainSchedule(establishmentID)

		if err := validateDay(sched); err != nil {
			s.logger.Warn("Update: invalid day %d for establishment=%d: %v", day.DayOfWeek, establishmentID, err)
			return nil, err
		}

		schedules = append(schedules, sched)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, sched := range schedules {
			if err := s.scheduleRepo.Upsert(txCtx, sched); err != nil {
				s.logger.Error("Update: upsert failed for establishment=%d day=%d: %v",
					establishmentID, sched.DayOfWeek, err)
				return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated schedule for establishment=%d", establishmentID)

	return s.Get(ctx, establishmentID)
}

// validateDay проверяет рабочие часы одного дня
// Закрытые дни валидны без времен; открытые требуют open < close,
// перерыв задается парой и лежит внутри рабочего окна
func validateDay(sched *domain.Schedule) error {
	if !sched.IsOpen {
		return nil
	}

	openMinutes, err := sched.OpenTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: open_time for day %d", ErrInvalidSchedule, sched.DayOfWeek)
	}

	closeMinutes, err := sched.CloseTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: close_time for day %d", ErrInvalidSchedule, sched.DayOfWeek)
	}

	if openMinutes >= closeMinutes {
		return fmt.Errorf("%w: open_time %s is not before close_time %s",
			ErrInvalidSchedule, sched.OpenTime, sched.CloseTime)
	}

	if (sched.BreakStart == nil) != (sched.BreakEnd == nil) {
		return fmt.Errorf("%w: break_start and break_end must be set together", ErrInvalidSchedule)
	}

	if sched.BreakStart != nil {
		breakStart, err := sched.BreakStart.Minutes()
		if err != nil {
			return fmt.Errorf("%w: break_start for day %d", ErrInvalidSchedule, sched.DayOfWeek)
		}

		breakEnd, err := sched.BreakEnd.Minutes()
		if err != nil {
			return fmt.Errorf("%w: break_end for day %d", ErrInvalidSchedule, sched.DayOfWeek)
		}

		if breakStart >= breakEnd {
			return fmt.Errorf("%w: break_start %s is not before break_end %s",
				ErrInvalidSchedule, *sched.BreakStart, *sched.BreakEnd)
		}

		if breakStart < openMinutes || breakEnd > closeMinutes {
			return fmt.Errorf("%w: break [%s, %s) is outside working hours [%s, %s)",
				ErrInvalidSchedule, *sched.BreakStart, *sched.BreakEnd, sched.OpenTime, sched.CloseTime)
		}
	}

	return nil
}
