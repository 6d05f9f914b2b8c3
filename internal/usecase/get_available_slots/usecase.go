package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/infra/storage/catalog"
	"github.com/agendafacil/booking-service/pkg/types"
)

// UseCase usecase получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogRepo     CatalogRepository
	timeProvider    TimeProvider
	slotCadence     int
	logger          Logger
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	slotCadenceMinutes int,
	logger Logger,
) *UseCase {
	if slotCadenceMinutes <= 0 {
		slotCadenceMinutes = domain.DefaultSlotCadenceMinutes
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogRepo:     catalogRepo,
		timeProvider:    &RealTimeProvider{},
		slotCadence:     slotCadenceMinutes,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Слот считается доступным, когда вся цепочка услуг целиком помещается
// в рабочее окно дня, не пересекает перерыв, не в прошлом и не
// конфликтует ни с одной активной записью мастера
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: Getting slots for establishment %d, professional %d, date %s",
		req.EstablishmentID, req.ProfessionalID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: Validation failed: %v", err)
		return nil, err
	}

	professional, err := uc.catalogRepo.GetProfessionalByID(ctx, req.EstablishmentID, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, catalog.ErrProfessionalNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrProfessionalNotFound, req.ProfessionalID)
		}
		uc.logger.Error("GetAvailableSlots: Failed to get professional: %v", err)
		return nil, fmt.Errorf("%w: get professional: %v", ErrInternal, err)
	}

	services, err := uc.catalogRepo.GetServicesByIDs(ctx, req.EstablishmentID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("GetAvailableSlots: Failed to get services: %v", err)
		return nil, fmt.Errorf("%w: get services: %v", ErrInternal, err)
	}

	totalDuration := domain.TotalDuration(services)
	totalPrice := domain.TotalPrice(services)

	schedules, err := uc.scheduleRepo.GetByEstablishment(ctx, req.EstablishmentID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: Failed to get schedules: %v", err)
		return nil, fmt.Errorf("%w: get schedules: %v", ErrInternal, err)
	}

	window, err := domain.ResolveDayWindow(schedules, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: Broken schedule for establishment %d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	response := &Response{
		Date:                 req.Date,
		EstablishmentID:      req.EstablishmentID,
		ProfessionalID:       professional.ID,
		TotalDurationMinutes: totalDuration,
		TotalPrice:           totalPrice,
		Slots:                []types.TimeString{},
	}

	// Заведение закрыто в этот день - пустой список, не ошибка
	if window == nil {
		uc.logger.Info("GetAvailableSlots: Establishment %d closed on %s",
			req.EstablishmentID, req.Date.Format(domain.DateFormat))
		return response, nil
	}

	appointments, err := uc.appointmentRepo.GetByProfessionalAndDate(ctx, req.EstablishmentID, req.ProfessionalID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: Failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: get appointments: %v", ErrInternal, err)
	}

	slots, err := uc.generateSlots(window, appointments, req, totalDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: generate slots: %v", ErrInternal, err)
	}

	response.Slots = slots

	uc.logger.Info("GetAvailableSlots: Found %d slots for professional %d on %s",
		len(slots), req.ProfessionalID, req.Date.Format(domain.DateFormat))

	return response, nil
}
