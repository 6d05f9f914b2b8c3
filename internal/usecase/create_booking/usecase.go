package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/infra/storage/catalog"
	customerRepo "github.com/agendafacil/booking-service/internal/infra/storage/customer"
)

// UseCase use case для создания публичной записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogRepo     CatalogRepository
	customerRepo    CustomerRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	customerRepo CustomerRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogRepo:     catalogRepo,
		customerRepo:    customerRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка конфликта и вставка цепочки услуг выполняются в одной
// сериализуемой транзакции: два конкурирующих бронирования одного слота
// не могут пройти оба
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: establishment=%d, professional=%d, services=%v, date=%s, time=%s",
		req.EstablishmentID, req.ProfessionalID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем мастера
	professional, err := uc.catalogRepo.GetProfessionalByID(ctx, req.EstablishmentID, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, catalog.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateBooking: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 3. Получаем цепочку услуг в запрошенном порядке
	services, err := uc.catalogRepo.GetServicesByIDs(ctx, req.EstablishmentID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: services %v not all found", req.ServiceIDs)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	totalDuration := domain.TotalDuration(services)
	totalPrice := domain.TotalPrice(services)

	// 4. Запись в прошлое невозможна
	if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: slot in the past: date=%s time=%s",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, err
	}

	var result *Response

	// 5. Проверка доступности и вставка цепочки в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Рабочее окно на дату
		schedules, err := uc.scheduleRepo.GetByEstablishment(txCtx, req.EstablishmentID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get schedules: %v", err)
			return fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
		}

		window, err := domain.ResolveDayWindow(schedules, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: broken schedule for establishment %d: %v", req.EstablishmentID, err)
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}

		if window == nil {
			uc.logger.Warn("CreateBooking: establishment %d is closed on %s",
				req.EstablishmentID, req.Date.Format(domain.DateFormat))
			return ErrEstablishmentClosed
		}

		// 5.2. Цепочка целиком внутри рабочего окна и вне перерыва
		if err := validateWithinWindow(window, req.StartTime, totalDuration); err != nil {
			uc.logger.Warn("CreateBooking: slot %s (+%d min) outside working hours", req.StartTime, totalDuration)
			return err
		}

		// 5.3. Снапшот активных записей мастера и проверка конфликта
		appointments, err := uc.appointmentRepo.GetByProfessionalAndDate(txCtx, req.EstablishmentID, req.ProfessionalID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		conflict, err := domain.FindConflict(appointments, req.ProfessionalID, req.Date, req.StartTime, totalDuration, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check conflicts: %v", err)
			return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
		}

		if conflict != nil {
			conflictEnd, err := conflict.EndTime()
			if err != nil {
				return fmt.Errorf("%w: failed to compute conflict end: %v", ErrInternal, err)
			}
			uc.logger.Warn("CreateBooking: slot %s conflicts with appointment id=%d", req.StartTime, conflict.ID)
			return &ConflictError{
				CustomerName: conflict.CustomerName,
				StartTime:    conflict.StartTime,
				EndTime:      conflictEnd,
			}
		}

		// 5.4. Ищем клиента по телефону, создаем при отсутствии
		cust, err := uc.resolveCustomer(txCtx, req)
		if err != nil {
			return err
		}

		// 5.5. Вставляем цепочку: одна запись на услугу, встык друг за другом
		// Всё или ничего: ошибка на любой услуге откатывает транзакцию целиком
		created, err := uc.insertChain(txCtx, req, cust, services)
		if err != nil {
			return err
		}

		endTime, err := req.StartTime.AddMinutes(totalDuration)
		if err != nil {
			return fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
		}

		result = &Response{
			EstablishmentID:      req.EstablishmentID,
			ProfessionalID:       professional.ID,
			CustomerID:           cust.ID,
			CustomerName:         cust.Name,
			CustomerPhone:        cust.Phone,
			Date:                 req.Date,
			StartTime:            req.StartTime,
			EndTime:              endTime,
			TotalDurationMinutes: totalDuration,
			TotalPrice:           totalPrice,
			Appointments:         created,
			CreatedAt:            now,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created %d appointments for customer %d at %s",
		len(result.Appointments), result.CustomerID, result.StartTime)

	return result, nil
}

// resolveCustomer ищет клиента заведения по телефону и создает нового,
// если поиск не дал результата
func (uc *UseCase) resolveCustomer(ctx context.Context, req *Request) (*domain.Customer, error) {
	cust, err := uc.customerRepo.GetByPhone(ctx, req.EstablishmentID, req.CustomerPhone)
	if err == nil {
		return cust, nil
	}

	if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
		uc.logger.Error("CreateBooking: failed to get customer by phone: %v", err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	created, err := uc.customerRepo.Create(ctx, &domain.Customer{
		EstablishmentID: req.EstablishmentID,
		Name:            req.CustomerName,
		Phone:           req.CustomerPhone,
		Email:           req.CustomerEmail,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create customer: %v", err)
		return nil, fmt.Errorf("%w: failed to create customer: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created customer id=%d phone=%s", created.ID, created.Phone)

	return created, nil
}

// insertChain вставляет по одной записи на каждую услугу цепочки,
// сдвигая курсор времени на длительность предыдущей услуги
func (uc *UseCase) insertChain(ctx context.Context, req *Request, cust *domain.Customer, services []*domain.ServiceOffering) ([]CreatedAppointment, error) {
	created := make([]CreatedAppointment, 0, len(services))
	cursor := req.StartTime

	for _, svc := range services {
		appointment := &domain.Appointment{
			EstablishmentID: req.EstablishmentID,
			CustomerID:      cust.ID,
			ProfessionalID:  req.ProfessionalID,
			ServiceID:       svc.ID,
			AppointmentDate: req.Date,
			StartTime:       cursor,
			DurationMinutes: svc.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
		}

		saved, err := uc.appointmentRepo.Create(ctx, appointment)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create appointment for service id=%d: %v", svc.ID, err)
			return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		created = append(created, CreatedAppointment{
			ID:              saved.ID,
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			ServicePrice:    svc.Price,
			StartTime:       cursor,
			DurationMinutes: svc.DurationMinutes,
			Status:          string(saved.Status),
		})

		next, err := cursor.AddMinutes(svc.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to advance chain cursor: %v", ErrInternal, err)
		}
		cursor = next
	}

	return created, nil
}
