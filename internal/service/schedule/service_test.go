package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/service/schedule/models"
	"github.com/agendafacil/booking-service/pkg/ptr"
	"github.com/agendafacil/booking-service/pkg/types"
)

type fakeScheduleRepo struct {
	schedules []*domain.Schedule
	upserts   []*domain.Schedule
	failOnDay int // -1 = не падать
}

func (f *fakeScheduleRepo) GetByEstablishment(_ context.Context, _ int64) ([]*domain.Schedule, error) {
	return f.schedules, nil
}

func (f *fakeScheduleRepo) Upsert(_ context.Context, s *domain.Schedule) error {
	if f.failOnDay == s.DayOfWeek {
		return assert.AnError
	}
	f.upserts = append(f.upserts, s)
	return nil
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

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newService(repo *fakeScheduleRepo) *Service {
	return NewService(repo, fakeTxManager{}, noopLogger{})
}

func TestGet_FillsMissingDaysAsClosed(t *testing.T) {
	repo := &fakeScheduleRepo{
		failOnDay: -1,
		schedules: []*domain.Schedule{
			{
				EstablishmentID: 1,
				DayOfWeek:       1,
				IsOpen:          true,
				OpenTime:        types.TimeString("09:00"),
				CloseTime:       types.TimeString("18:00"),
				BreakStart:      ptr.Ptr(types.TimeString("12:00")),
				BreakEnd:        ptr.Ptr(types.TimeString("13:00")),
			},
		},
	}
	svc := newService(repo)

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, resp.Days, 7)
	assert.False(t, resp.Days[0].IsOpen)

	monday := resp.Days[1]
	assert.True(t, monday.IsOpen)
	assert.Equal(t, "09:00", monday.OpenTime)
	assert.Equal(t, "18:00", monday.CloseTime)
	require.NotNil(t, monday.BreakStart)
	assert.Equal(t, "12:00", *monday.BreakStart)

	for day := 2; day <= 6; day++ {
		assert.False(t, resp.Days[day].IsOpen, "day %d should be closed", day)
	}
}

func TestUpdate_UpsertsAllDays(t *testing.T) {
	repo := &fakeScheduleRepo{failOnDay: -1}
	svc := newService(repo)

	req := &models.UpdateScheduleRequest{
		Days: []models.DayScheduleRequest{
			{DayOfWeek: 0, IsOpen: false},
			{DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
			{DayOfWeek: 2, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00",
				BreakStart: ptr.Ptr("12:00"), BreakEnd: ptr.Ptr("13:00")},
		},
	}

	_, err := svc.Update(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, repo.upserts, 3)
	assert.Equal(t, int64(1), repo.upserts[0].EstablishmentID)
	assert.False(t, repo.upserts[0].IsOpen)
	assert.True(t, repo.upserts[1].IsOpen)
	require.NotNil(t, repo.upserts[2].BreakStart)
}

func TestUpdate_InvalidDaysRejectedBeforeWrite(t *testing.T) {
	tests := []struct {
		name    string
		day     models.DayScheduleRequest
		wantErr error
	}{
		{
			"open after close",
			models.DayScheduleRequest{DayOfWeek: 1, IsOpen: true, OpenTime: "18:00", CloseTime: "09:00"},
			ErrInvalidSchedule,
		},
		{
			"unparseable open time",
			models.DayScheduleRequest{DayOfWeek: 1, IsOpen: true, OpenTime: "9am", CloseTime: "18:00"},
			ErrInvalidSchedule,
		},
		{
			"break without end",
			models.DayScheduleRequest{DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00",
				BreakStart: ptr.Ptr("12:00")},
			ErrInvalidSchedule,
		},
		{
			"break outside window",
			models.DayScheduleRequest{DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00",
				BreakStart: ptr.Ptr("08:00"), BreakEnd: ptr.Ptr("09:30")},
			ErrInvalidSchedule,
		},
		{
			"break start after break end",
			models.DayScheduleRequest{DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00",
				BreakStart: ptr.Ptr("14:00"), BreakEnd: ptr.Ptr("13:00")},
			ErrInvalidSchedule,
		},
		{
			"day of week out of range",
			models.DayScheduleRequest{DayOfWeek: 7, IsOpen: false},
			ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeScheduleRepo{failOnDay: -1}
			svc := newService(repo)

			_, err := svc.Update(context.Background(), 1, &models.UpdateScheduleRequest{
				Days: []models.DayScheduleRequest{tt.day},
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.upserts)
		})
	}
}

func TestUpdate_DuplicateDayRejected(t *testing.T) {
	repo := &fakeScheduleRepo{failOnDay: -1}
	svc := newService(repo)

	req := &models.UpdateScheduleRequest{
		Days: []models.DayScheduleRequest{
			{DayOfWeek: 1, IsOpen: false},
			{DayOfWeek: 1, IsOpen: false},
		},
	}

	_, err := svc.Update(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_ClosedDayNeedsNoTimes(t *testing.T) {
	repo := &fakeScheduleRepo{failOnDay: -1}
	svc := newService(repo)

	req := &models.UpdateScheduleRequest{
		Days: []models.DayScheduleRequest{{DayOfWeek: 0, IsOpen: false}},
	}

	_, err := svc.Update(context.Background(), 1, req)
	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)
	assert.True(t, repo.upserts[0].OpenTime.IsZero())
}

func TestUpdate_RepositoryErrorSurfaces(t *testing.T) {
	repo := &fakeScheduleRepo{failOnDay: 2}
	svc := newService(repo)

	req := &models.UpdateScheduleRequest{
		Days: []models.DayScheduleRequest{
			{DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
			{DayOfWeek: 2, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
		},
	}

	_, err := svc.Update(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrInternal)
}
