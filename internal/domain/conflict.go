package domain

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// FindConflict ищет запись, пересекающуюся с кандидатом [startTime, startTime+duration)
// для указанного мастера на указанную дату
//
// Интервалы полуоткрытые: запись, заканчивающаяся ровно в начале кандидата
// (или начинающаяся ровно в его конце), конфликтом НЕ считается -
// back-to-back записи допустимы
//
// excludeID исключает одну запись из проверки (используется при переносе,
// чтобы запись не конфликтовала сама с собой)
//
// Возвращает первую найденную конфликтующую запись или nil
// Чистая функция над снапшотом, без побочных эффектов
func FindConflict(
	appointments []*Appointment,
	professionalID int64,
	date time.Time,
	startTime types.TimeString,
	durationMinutes int,
	excludeID *int64,
) (*Appointment, error) {
	candidateEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return nil, err
	}

	for _, apt := range appointments {
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		// Отмененные записи не занимают время мастера
		if !apt.IsActive() {
			continue
		}
		if apt.ProfessionalID != professionalID {
			continue
		}
		if !isSameDay(apt.AppointmentDate, date) {
			continue
		}

		aptEnd, err := apt.StartTime.AddMinutes(apt.DurationMinutes)
		if err != nil {
			return nil, err
		}

		// startTime < aptEnd && candidateEnd > apt.StartTime
		if startTime.IsBefore(aptEnd) && candidateEnd.IsAfter(apt.StartTime) {
			return apt, nil
		}
	}

	return nil, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// IsSameDay экспортированная версия для usecase-слоя
func IsSameDay(date1, date2 time.Time) bool {
	return isSameDay(date1, date2)
}
