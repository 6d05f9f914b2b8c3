package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	aptRepo "github.com/agendafacil/booking-service/internal/infra/storage/appointment"
	"github.com/agendafacil/booking-service/internal/infra/storage/catalog"
	"github.com/agendafacil/booking-service/internal/service/appointments/models"
	"github.com/agendafacil/booking-service/pkg/types"
)

// Service сервис для работы с записями заведения
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, aptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(apt), nil
}

// GetEstablishmentAppointments получает записи заведения с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, дате, периоду, статусу и включению отмененных
func (s *Service) GetEstablishmentAppointments(ctx context.Context, req *models.GetEstablishmentAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetEstablishmentAppointments: fetching appointments for establishment=%d", req.EstablishmentID)

	if req.EstablishmentID <= 0 {
		return nil, fmt.Errorf("%w: establishment_id must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetEstablishmentAppointments: invalid filter for establishment=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByEstablishmentWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetEstablishmentAppointments: repository error for establishment=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: GetEstablishmentAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetEstablishmentAppointments: fetched %d appointments for establishment=%d",
		len(appointments), req.EstablishmentID)

	return models.FromDomainAppointmentList(appointments), nil
}

// UpdateStatus обновляет статус записи
// Отмена через UpdateStatus запрещена - для этого есть Cancel
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, req.Status)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	if newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation of appointment id=%d must go through Cancel", id)
		return fmt.Errorf("%w: use the cancel endpoint to cancel", ErrInvalidStatus)
	}

	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, aptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Отмененная запись не возвращается к жизни сменой статуса
	if apt.IsCancelled() {
		s.logger.Warn("UpdateStatus: appointment id=%d is cancelled", id)
		return fmt.Errorf("%w: appointment is cancelled", ErrInvalidStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, aptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return nil
}

// Cancel отменяет запись
// Отмена освобождает слот: отмененные записи не участвуют в проверке конфликтов
func (s *Service) Cancel(ctx context.Context, id int64) error {
	s.logger.Info("Cancel: cancelling appointment id=%d", id)

	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, aptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !apt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, apt.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, id); err != nil {
		if errors.Is(err, aptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// Reschedule переносит запись на другое время, дату или мастера
// Проверка конфликта и обновление выполняются в сериализуемой транзакции,
// сама переносимая запись исключается из проверки
func (s *Service) Reschedule(ctx context.Context, id int64, req *models.RescheduleRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Reschedule: rescheduling appointment id=%d", id)

	newDate, newStartTime, err := models.ParseRescheduleTarget(req)
	if err != nil {
		s.logger.Warn("Reschedule: invalid target for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: invalid date or time format", ErrInvalidInput)
	}

	if req.ProfessionalID == nil && newDate == nil && newStartTime == nil {
		return nil, fmt.Errorf("%w: nothing to reschedule", ErrInvalidInput)
	}

	var result *domain.Appointment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		apt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, aptRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Reschedule: appointment id=%d not found", id)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Reschedule: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		if !apt.CanBeRescheduled() {
			s.logger.Warn("Reschedule: appointment id=%d cannot be rescheduled, status=%s", id, apt.Status)
			return ErrCannotReschedule
		}

		// Целевые значения: явно указанные или текущие
		targetProfessional := apt.ProfessionalID
		if req.ProfessionalID != nil {
			targetProfessional = *req.ProfessionalID
		}

		targetDate := apt.AppointmentDate
		if newDate != nil {
			targetDate = *newDate
		}

		targetStart := apt.StartTime
		if newStartTime != nil {
			targetStart = *newStartTime
		}

		// Новый мастер должен существовать и быть активным
		if targetProfessional != apt.ProfessionalID {
			if _, err := s.catalogRepo.GetProfessionalByID(txCtx, apt.EstablishmentID, targetProfessional); err != nil {
				if errors.Is(err, catalog.ErrProfessionalNotFound) {
					s.logger.Warn("Reschedule: professional id=%d not found", targetProfessional)
					return ErrProfessionalNotFound
				}
				s.logger.Error("Reschedule: failed to get professional id=%d: %v", targetProfessional, err)
				return fmt.Errorf("%w: Reschedule - failed to get professional: %v", ErrInternal, err)
			}
		}

		if err := s.validateTarget(txCtx, apt, targetProfessional, targetDate, targetStart); err != nil {
			return err
		}

		if err := s.appointmentRepo.Reschedule(txCtx, id, targetProfessional, targetDate, targetStart); err != nil {
			if errors.Is(err, aptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Reschedule: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		updated, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			s.logger.Error("Reschedule: failed to reload appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Reschedule - failed to reload appointment: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Reschedule: successfully rescheduled appointment id=%d to %s %s",
		id, result.AppointmentDate.Format(domain.DateFormat), result.StartTime)

	return models.FromDomainAppointment(result), nil
}

// PurgeCancelled удаляет записи, отмененные раньше cutoff
// Вызывается периодической очисткой
func (s *Service) PurgeCancelled(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.appointmentRepo.DeleteCancelledBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("PurgeCancelled: repository error: %v", err)
		return 0, fmt.Errorf("%w: PurgeCancelled - repository error: %v", ErrInternal, err)
	}

	if deleted > 0 {
		s.logger.Info("PurgeCancelled: deleted %d cancelled appointments older than %s",
			deleted, cutoff.Format(domain.DateFormat))
	}

	return deleted, nil
}

// validateTarget проверяет целевой слот переноса: не в прошлом, внутри
// рабочего окна, вне перерыва и без пересечений с другими записями мастера
func (s *Service) validateTarget(
	ctx context.Context,
	apt *domain.Appointment,
	professionalID int64,
	date time.Time,
	startTime types.TimeString,
) error {
	now := s.timeProvider.Now()

	if domain.IsDateInPast(date, now) {
		return ErrSlotInPast
	}

	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid start time", ErrInvalidInput)
	}

	if domain.IsSameDay(date, now) {
		nowMinutes := now.Hour()*60 + now.Minute()
		if startMinutes <= nowMinutes {
			return ErrSlotInPast
		}
	}

	schedules, err := s.scheduleRepo.GetByEstablishment(ctx, apt.EstablishmentID)
	if err != nil {
		s.logger.Error("Reschedule: failed to get schedules for establishment=%d: %v", apt.EstablishmentID, err)
		return fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
	}

	window, err := domain.ResolveDayWindow(schedules, date)
	if err != nil {
		s.logger.Error("Reschedule: broken schedule for establishment=%d: %v", apt.EstablishmentID, err)
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	if window == nil {
		return ErrEstablishmentClosed
	}

	endMinutes := startMinutes + apt.DurationMinutes
	if startMinutes < window.OpenMinutes || endMinutes > window.CloseMinutes {
		return ErrSlotOutsideWorkingHours
	}
	if window.OverlapsBreak(startMinutes, endMinutes) {
		return ErrSlotOutsideWorkingHours
	}

	appointments, err := s.appointmentRepo.GetByProfessionalAndDate(ctx, apt.EstablishmentID, professionalID, date)
	if err != nil {
		s.logger.Error("Reschedule: failed to get appointments: %v", err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	conflict, err := domain.FindConflict(appointments, professionalID, date, startTime, apt.DurationMinutes, &apt.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
	}

	if conflict != nil {
		s.logger.Warn("Reschedule: target slot %s conflicts with appointment id=%d", startTime, conflict.ID)
		return ErrSlotConflict
	}

	return nil
}
