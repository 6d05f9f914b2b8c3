package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/pkg/types"
)

var testDate = time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local) // понедельник

func makeAppointment(id, professionalID int64, start types.TimeString, duration int, status AppointmentStatus) *Appointment {
	return &Appointment{
		ID:              id,
		EstablishmentID: 1,
		ProfessionalID:  professionalID,
		AppointmentDate: testDate,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestFindConflict_Overlap(t *testing.T) {
	existing := []*Appointment{
		makeAppointment(1, 10, "10:00", 60, StatusConfirmed), // 10:00-11:00
	}

	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		conflict bool
	}{
		{name: "candidate starts during existing", start: "10:30", duration: 60, conflict: true},
		{name: "candidate ends during existing", start: "09:30", duration: 60, conflict: true},
		{name: "candidate contains existing", start: "09:30", duration: 150, conflict: true},
		{name: "candidate inside existing", start: "10:15", duration: 30, conflict: true},
		{name: "exact same interval", start: "10:00", duration: 60, conflict: true},
		{name: "ends exactly at existing start", start: "09:00", duration: 60, conflict: false},
		{name: "starts exactly at existing end", start: "11:00", duration: 60, conflict: false},
		{name: "fully before", start: "08:00", duration: 30, conflict: false},
		{name: "fully after", start: "12:00", duration: 30, conflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := FindConflict(existing, 10, testDate, tt.start, tt.duration, nil)
			require.NoError(t, err)
			if tt.conflict {
				require.NotNil(t, found)
				assert.Equal(t, int64(1), found.ID)
			} else {
				assert.Nil(t, found)
			}
		})
	}
}

func TestFindConflict_CancelledNeverBlocks(t *testing.T) {
	existing := []*Appointment{
		makeAppointment(1, 10, "10:00", 60, StatusCancelled),
	}

	// Кандидат ровно поверх отмененной записи
	found, err := FindConflict(existing, 10, testDate, "10:00", 60, nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindConflict_ScopedToProfessional(t *testing.T) {
	existing := []*Appointment{
		makeAppointment(1, 10, "10:00", 60, StatusConfirmed),
	}

	// Тот же интервал у другого мастера - конфликта нет
	found, err := FindConflict(existing, 20, testDate, "10:00", 60, nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindConflict_ScopedToDate(t *testing.T) {
	existing := []*Appointment{
		makeAppointment(1, 10, "10:00", 60, StatusConfirmed),
	}

	otherDay := testDate.AddDate(0, 0, 1)
	found, err := FindConflict(existing, 10, otherDay, "10:00", 60, nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindConflict_ExcludeID(t *testing.T) {
	self := int64(1)
	existing := []*Appointment{
		makeAppointment(1, 10, "10:00", 60, StatusConfirmed),
		makeAppointment(2, 10, "14:00", 30, StatusConfirmed),
	}

	// Перенос записи 1 внутри её же интервала: сама запись исключена
	found, err := FindConflict(existing, 10, testDate, "10:30", 30, &self)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Но конфликт с другой записью по-прежнему находится
	found, err = FindConflict(existing, 10, testDate, "13:45", 30, &self)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(2), found.ID)
}

// Рандомизированная проверка полуоткрытого пересечения против
// brute-force эталона по минутам
func TestFindConflict_RandomizedAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		existingStart := rng.Intn(23 * 60)
		existingDur := 1 + rng.Intn(120)
		if existingStart+existingDur >= 24*60 {
			existingDur = 24*60 - existingStart - 1
		}

		candidateStart := rng.Intn(23 * 60)
		candidateDur := 1 + rng.Intn(120)
		if candidateStart+candidateDur >= 24*60 {
			candidateDur = 24*60 - candidateStart - 1
		}

		existingTS, err := types.FromMinutes(existingStart)
		require.NoError(t, err)
		candidateTS, err := types.FromMinutes(candidateStart)
		require.NoError(t, err)

		existing := []*Appointment{
			makeAppointment(1, 10, existingTS, existingDur, StatusConfirmed),
		}

		found, err := FindConflict(existing, 10, testDate, candidateTS, candidateDur, nil)
		require.NoError(t, err)

		// Эталон: поминутное пересечение [a0, a1) и [b0, b1)
		want := false
		for m := candidateStart; m < candidateStart+candidateDur; m++ {
			if m >= existingStart && m < existingStart+existingDur {
				want = true
				break
			}
		}

		assert.Equal(t, want, found != nil,
			"existing [%d, %d), candidate [%d, %d)",
			existingStart, existingStart+existingDur, candidateStart, candidateStart+candidateDur)
	}
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2025, 6, 16, 14, 31, 0, 0, time.Local)

	assert.True(t, IsDateInPast(now.AddDate(0, 0, -1), now))
	assert.False(t, IsDateInPast(now, now))
	// Тот же день, но более раннее время - день не в прошлом
	assert.False(t, IsDateInPast(time.Date(2025, 6, 16, 8, 0, 0, 0, time.Local), now))
	assert.False(t, IsDateInPast(now.AddDate(0, 0, 1), now))
}
