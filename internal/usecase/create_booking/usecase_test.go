package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/infra/storage/catalog"
	customerRepo "github.com/agendafacil/booking-service/internal/infra/storage/customer"
	"github.com/agendafacil/booking-service/pkg/ptr"
	"github.com/agendafacil/booking-service/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	created      []*domain.Appointment
	nextID       int64
	failOnNth    int // 0 = не падать, N = упасть на N-й вставке
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	if f.failOnNth > 0 && len(f.created)+1 == f.failOnNth {
		return nil, assert.AnError
	}
	f.nextID++
	appointment.ID = f.nextID
	f.created = append(f.created, appointment)
	return appointment, nil
}

func (f *fakeAppointmentRepo) GetByProfessionalAndDate(_ context.Context, _, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return f.appointments, nil
}

type fakeScheduleRepo struct {
	schedules []*domain.Schedule
}

func (f *fakeScheduleRepo) GetByEstablishment(_ context.Context, _ int64) ([]*domain.Schedule, error) {
	return f.schedules, nil
}

type fakeCatalogRepo struct {
	services     map[int64]*domain.ServiceOffering
	professional *domain.Professional
}

func (f *fakeCatalogRepo) GetServicesByIDs(_ context.Context, _ int64, ids []int64) ([]*domain.ServiceOffering, error) {
	result := make([]*domain.ServiceOffering, 0, len(ids))
	for _, id := range ids {
		svc, ok := f.services[id]
		if !ok {
			return nil, catalog.ErrServiceNotFound
		}
		result = append(result, svc)
	}
	return result, nil
}

func (f *fakeCatalogRepo) GetProfessionalByID(_ context.Context, _, _ int64) (*domain.Professional, error) {
	if f.professional == nil {
		return nil, catalog.ErrProfessionalNotFound
	}
	return f.professional, nil
}

type fakeCustomerRepo struct {
	byPhone map[string]*domain.Customer
	created []*domain.Customer
	nextID  int64
}

func (f *fakeCustomerRepo) GetByPhone(_ context.Context, _ int64, phone string) (*domain.Customer, error) {
	if c, ok := f.byPhone[phone]; ok {
		return c, nil
	}
	return nil, customerRepo.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	f.nextID++
	customer.ID = f.nextID + 1000
	f.created = append(f.created, customer)
	return customer, nil
}

// fakeTxManager выполняет функцию без реальной транзакции
// Семантика отката (всё или ничего) проверяется по возврату ошибки
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func weekdaySchedules() []*domain.Schedule {
	schedules := make([]*domain.Schedule, 0, 7)
	for day := 1; day <= 6; day++ {
		schedules = append(schedules, &domain.Schedule{
			EstablishmentID: 1,
			DayOfWeek:       day,
			IsOpen:          true,
			OpenTime:        types.TimeString("09:00"),
			CloseTime:       types.TimeString("18:00"),
			BreakStart:      ptr.Ptr(types.TimeString("12:00")),
			BreakEnd:        ptr.Ptr(types.TimeString("13:00")),
		})
	}
	schedules = append(schedules, &domain.Schedule{
		EstablishmentID: 1,
		DayOfWeek:       0,
		IsOpen:          false,
	})
	return schedules
}

type fixture struct {
	uc              *UseCase
	appointmentRepo *fakeAppointmentRepo
	customerRepo    *fakeCustomerRepo
	txManager       *fakeTxManager
}

// Понедельник, будущее относительно тестового "сейчас"
var testDate = time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)

func newFixture(appointments []*domain.Appointment) *fixture {
	appointmentRepo := &fakeAppointmentRepo{appointments: appointments}
	custRepo := &fakeCustomerRepo{byPhone: map[string]*domain.Customer{}}
	txManager := &fakeTxManager{}

	services := map[int64]*domain.ServiceOffering{
		10: {ID: 10, EstablishmentID: 1, Name: "Corte", DurationMinutes: 30, Price: 50, IsActive: true},
		11: {ID: 11, EstablishmentID: 1, Name: "Barba", DurationMinutes: 45, Price: 40, IsActive: true},
	}
	professional := &domain.Professional{ID: 5, EstablishmentID: 1, Name: "Ana", IsActive: true}

	uc := NewUseCase(
		appointmentRepo,
		&fakeScheduleRepo{schedules: weekdaySchedules()},
		&fakeCatalogRepo{services: services, professional: professional},
		custRepo,
		txManager,
		noopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC)}

	return &fixture{
		uc:              uc,
		appointmentRepo: appointmentRepo,
		customerRepo:    custRepo,
		txManager:       txManager,
	}
}

func validRequest() *Request {
	return &Request{
		EstablishmentID: 1,
		ProfessionalID:  5,
		ServiceIDs:      []int64{10},
		Date:            testDate,
		StartTime:       types.TimeString("10:00"),
		CustomerName:    "Joao Silva",
		CustomerPhone:   "11999998888",
	}
}

func TestExecute_CreatesSingleAppointment(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "10:30", resp.EndTime.String())
	assert.Equal(t, 30, resp.TotalDurationMinutes)
	assert.Equal(t, 50.0, resp.TotalPrice)
	assert.Equal(t, 1, f.txManager.calls)

	require.Len(t, f.appointmentRepo.created, 1)
	assert.Equal(t, domain.StatusConfirmed, f.appointmentRepo.created[0].Status)
}

func TestExecute_ServiceChainIsInsertedBackToBack(t *testing.T) {
	f := newFixture(nil)

	req := validRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, "10:00", resp.Appointments[0].StartTime.String())
	assert.Equal(t, 30, resp.Appointments[0].DurationMinutes)
	assert.Equal(t, "10:30", resp.Appointments[1].StartTime.String())
	assert.Equal(t, 45, resp.Appointments[1].DurationMinutes)
	assert.Equal(t, "11:15", resp.EndTime.String())
	assert.Equal(t, 75, resp.TotalDurationMinutes)
	assert.Equal(t, 90.0, resp.TotalPrice)
}

func TestExecute_ConflictRejectsWholeChain(t *testing.T) {
	existing := []*domain.Appointment{
		{
			ID:              100,
			EstablishmentID: 1,
			ProfessionalID:  5,
			AppointmentDate: testDate,
			StartTime:       types.TimeString("10:30"),
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
			CustomerName:    "Maria",
		},
	}
	f := newFixture(existing)

	// Цепочка 10:00-11:15 пересекает запись 10:30-11:00
	req := validRequest()
	req.ServiceIDs = []int64{10, 11}

	_, err := f.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "Maria", conflictErr.CustomerName)
	assert.Equal(t, "10:30", conflictErr.StartTime.String())

	// Ни одна запись не вставлена
	assert.Empty(t, f.appointmentRepo.created)
}

func TestExecute_TouchingAppointmentsDoNotConflict(t *testing.T) {
	existing := []*domain.Appointment{
		{
			ID:              100,
			EstablishmentID: 1,
			ProfessionalID:  5,
			AppointmentDate: testDate,
			StartTime:       types.TimeString("10:30"),
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
	}
	f := newFixture(existing)

	// 10:00-10:30 встык перед существующей записью 10:30-11:00
	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "10:30", resp.EndTime.String())
}

func TestExecute_ClosedDayRejected(t *testing.T) {
	f := newFixture(nil)

	req := validRequest()
	req.Date = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) // воскресенье

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEstablishmentClosed)
}

func TestExecute_SlotOutsideWorkingHoursRejected(t *testing.T) {
	f := newFixture(nil)

	tests := []struct {
		name      string
		startTime types.TimeString
		services  []int64
	}{
		{"before opening", types.TimeString("08:30"), []int64{10}},
		{"chain spills past closing", types.TimeString("17:45"), []int64{10}},
		{"overlaps break", types.TimeString("11:45"), []int64{10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartTime = tt.startTime
			req.ServiceIDs = tt.services

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrSlotOutsideWorkingHours)
		})
	}
}

func TestExecute_PastSlotRejected(t *testing.T) {
	f := newFixture(nil)
	f.uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, time.June, 16, 14, 31, 0, 0, time.UTC)}

	req := validRequest()
	req.StartTime = types.TimeString("14:30")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotInPast)

	// Прошедшая дата целиком
	req = validRequest()
	req.Date = time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestExecute_ExistingCustomerIsReused(t *testing.T) {
	f := newFixture(nil)
	f.customerRepo.byPhone["11999998888"] = &domain.Customer{
		ID:              42,
		EstablishmentID: 1,
		Name:            "Joao Silva",
		Phone:           "11999998888",
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.CustomerID)
	assert.Empty(t, f.customerRepo.created)
}

func TestExecute_UnknownCustomerIsCreated(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, f.customerRepo.created, 1)
	assert.Equal(t, "Joao Silva", f.customerRepo.created[0].Name)
	assert.Equal(t, "11999998888", f.customerRepo.created[0].Phone)
	assert.Equal(t, resp.CustomerID, f.customerRepo.created[0].ID)
}

func TestExecute_ChainInsertFailureReturnsError(t *testing.T) {
	f := newFixture(nil)
	f.appointmentRepo.failOnNth = 2

	req := validRequest()
	req.ServiceIDs = []int64{10, 11}

	// Ошибка на второй вставке всплывает из транзакции - менеджер откатит всё
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_ProfessionalNotFound(t *testing.T) {
	f := newFixture(nil)
	f.uc.catalogRepo = &fakeCatalogRepo{services: map[int64]*domain.ServiceOffering{}, professional: nil}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(nil)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero establishment", func(r *Request) { r.EstablishmentID = 0 }},
		{"zero professional", func(r *Request) { r.ProfessionalID = 0 }},
		{"no services", func(r *Request) { r.ServiceIDs = nil }},
		{"bad start time", func(r *Request) { r.StartTime = types.TimeString("25:99") }},
		{"empty customer name", func(r *Request) { r.CustomerName = "  " }},
		{"empty customer phone", func(r *Request) { r.CustomerPhone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
