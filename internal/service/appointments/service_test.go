package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	aptRepo "github.com/agendafacil/booking-service/internal/infra/storage/appointment"
	"github.com/agendafacil/booking-service/internal/infra/storage/catalog"
	"github.com/agendafacil/booking-service/internal/service/appointments/models"
	"github.com/agendafacil/booking-service/pkg/ptr"
	"github.com/agendafacil/booking-service/pkg/types"
)

type fakeAppointmentRepo struct {
	byID          map[int64]*domain.Appointment
	byDate        []*domain.Appointment
	statusUpdates map[int64]domain.AppointmentStatus
	cancelled     []int64
	purged        int64
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		byID:          map[int64]*domain.Appointment{},
		statusUpdates: map[int64]domain.AppointmentStatus{},
	}
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := f.byID[id]
	if !ok {
		return nil, aptRepo.ErrAppointmentNotFound
	}
	return apt, nil
}

func (f *fakeAppointmentRepo) GetByProfessionalAndDate(_ context.Context, _, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return f.byDate, nil
}

func (f *fakeAppointmentRepo) GetByEstablishmentWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return f.byDate, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := f.byID[id]; !ok {
		return aptRepo.ErrAppointmentNotFound
	}
	f.statusUpdates[id] = status
	f.byID[id].Status = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return aptRepo.ErrAppointmentNotFound
	}
	f.cancelled = append(f.cancelled, id)
	f.byID[id].Status = domain.StatusCancelled
	return nil
}

func (f *fakeAppointmentRepo) Reschedule(_ context.Context, id int64, professionalID int64, date time.Time, startTime types.TimeString) error {
	apt, ok := f.byID[id]
	if !ok {
		return aptRepo.ErrAppointmentNotFound
	}
	apt.ProfessionalID = professionalID
	apt.AppointmentDate = date
	apt.StartTime = startTime
	return nil
}

func (f *fakeAppointmentRepo) DeleteCancelledBefore(_ context.Context, _ time.Time) (int64, error) {
	return f.purged, nil
}

type fakeScheduleRepo struct {
	schedules []*domain.Schedule
}

func (f *fakeScheduleRepo) GetByEstablishment(_ context.Context, _ int64) ([]*domain.Schedule, error) {
	return f.schedules, nil
}

type fakeCatalogRepo struct {
	professionals map[int64]*domain.Professional
}

func (f *fakeCatalogRepo) GetProfessionalByID(_ context.Context, _, id int64) (*domain.Professional, error) {
	p, ok := f.professionals[id]
	if !ok {
		return nil, catalog.ErrProfessionalNotFound
	}
	return p, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
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

var testDate = time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)

func openSchedules() []*domain.Schedule {
	schedules := make([]*domain.Schedule, 0, 7)
	for day := 0; day <= 6; day++ {
		schedules = append(schedules, &domain.Schedule{
			EstablishmentID: 1,
			DayOfWeek:       day,
			IsOpen:          day != 0,
			OpenTime:        types.TimeString("09:00"),
			CloseTime:       types.TimeString("18:00"),
		})
	}
	return schedules
}

type fixture struct {
	svc     *Service
	repo    *fakeAppointmentRepo
	catalog *fakeCatalogRepo
}

func newFixture() *fixture {
	repo := newFakeAppointmentRepo()
	cat := &fakeCatalogRepo{professionals: map[int64]*domain.Professional{
		5: {ID: 5, EstablishmentID: 1, Name: "Ana", IsActive: true},
		6: {ID: 6, EstablishmentID: 1, Name: "Bia", IsActive: true},
	}}

	svc := NewService(
		repo,
		&fakeScheduleRepo{schedules: openSchedules()},
		cat,
		fakeTxManager{},
		noopLogger{},
	)
	svc.timeProvider = &fixedTimeProvider{now: time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC)}

	return &fixture{svc: svc, repo: repo, catalog: cat}
}

func seedAppointment(f *fixture, id int64, status domain.AppointmentStatus) *domain.Appointment {
	apt := &domain.Appointment{
		ID:              id,
		EstablishmentID: 1,
		CustomerID:      42,
		ProfessionalID:  5,
		ServiceID:       10,
		AppointmentDate: testDate,
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 30,
		Status:          status,
		CustomerName:    "Joao",
		CustomerPhone:   "11999998888",
		ServiceName:     "Corte",
		ServicePrice:    50,
	}
	f.repo.byID[id] = apt
	return apt
}

func TestGetByID(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	resp, err := f.svc.GetByID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "10:30", resp.EndTime)

	_, err = f.svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusPending)

	err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, f.repo.statusUpdates[100])
}

func TestUpdateStatus_RejectsCancellation(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, f.repo.statusUpdates)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{Status: "finished"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_CancelledAppointmentStaysCancelled(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusCancelled)

	err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	err := f.svc.Cancel(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, f.repo.cancelled)
}

func TestCancel_CompletedCannotBeCancelled(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusCompleted)

	err := f.svc.Cancel(context.Background(), 100)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, f.repo.cancelled)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusCancelled)

	err := f.svc.Cancel(context.Background(), 100)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestReschedule_MovesStartTime(t *testing.T) {
	f := newFixture()
	apt := seedAppointment(f, 100, domain.StatusConfirmed)
	f.repo.byDate = []*domain.Appointment{apt}

	resp, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		StartTime: ptr.Ptr("15:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "15:00", resp.StartTime)
	assert.Equal(t, int64(5), resp.ProfessionalID)
}

func TestReschedule_OwnSlotDoesNotConflict(t *testing.T) {
	f := newFixture()
	apt := seedAppointment(f, 100, domain.StatusConfirmed)
	f.repo.byDate = []*domain.Appointment{apt}

	// Сдвиг на полчаса пересекается со старым интервалом записи,
	// но сама запись исключается из проверки
	resp, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		StartTime: ptr.Ptr("10:15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10:15", resp.StartTime)
}

func TestReschedule_ConflictWithOtherAppointment(t *testing.T) {
	f := newFixture()
	apt := seedAppointment(f, 100, domain.StatusConfirmed)
	other := &domain.Appointment{
		ID:              200,
		EstablishmentID: 1,
		ProfessionalID:  5,
		AppointmentDate: testDate,
		StartTime:       types.TimeString("15:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
	f.repo.byDate = []*domain.Appointment{apt, other}

	_, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		StartTime: ptr.Ptr("15:30"),
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestReschedule_ToAnotherProfessional(t *testing.T) {
	f := newFixture()
	apt := seedAppointment(f, 100, domain.StatusConfirmed)
	f.repo.byDate = []*domain.Appointment{apt}

	resp, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		ProfessionalID: ptr.Ptr(int64(6)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.ProfessionalID)
}

func TestReschedule_UnknownProfessional(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	_, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		ProfessionalID: ptr.Ptr(int64(99)),
	})
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestReschedule_OutsideWorkingHours(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	_, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		StartTime: ptr.Ptr("17:45"),
	})
	assert.ErrorIs(t, err, ErrSlotOutsideWorkingHours)
}

func TestReschedule_ClosedDay(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	sunday := "2025-06-15"
	_, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		Date: &sunday,
	})
	assert.ErrorIs(t, err, ErrEstablishmentClosed)
}

func TestReschedule_PastDate(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	past := "2025-06-09"
	_, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		Date: &past,
	})
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestReschedule_CancelledCannotBeRescheduled(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusCancelled)

	_, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{
		StartTime: ptr.Ptr("15:00"),
	})
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestReschedule_EmptyRequest(t *testing.T) {
	f := newFixture()
	seedAppointment(f, 100, domain.StatusConfirmed)

	_, err := f.svc.Reschedule(context.Background(), 100, &models.RescheduleRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPurgeCancelled(t *testing.T) {
	f := newFixture()
	f.repo.purged = 7

	deleted, err := f.svc.PurgeCancelled(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}
