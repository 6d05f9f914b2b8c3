package models

import (
	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/types"
)

// Request модели

// DayScheduleRequest рабочие часы одного дня недели
// Для закрытого дня времена игнорируются
type DayScheduleRequest struct {
	DayOfWeek  int     `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	IsOpen     bool    `json:"isOpen"`
	OpenTime   string  `json:"openTime,omitempty"`   // "09:00"
	CloseTime  string  `json:"closeTime,omitempty"`  // "18:00"
	BreakStart *string `json:"breakStart,omitempty"` // "12:00"
	BreakEnd   *string `json:"breakEnd,omitempty"`   // "13:00"
}

// UpdateScheduleRequest запрос на замену недельного расписания заведения
type UpdateScheduleRequest struct {
	Days []DayScheduleRequest `json:"days"`
}

// ToDomainSchedule конвертирует день запроса в domain модель
func (d *DayScheduleRequest) ToDomainSchedule(establishmentID int64) *domain.Schedule {
	s := &domain.Schedule{
		EstablishmentID: establishmentID,
		DayOfWeek:       d.DayOfWeek,
		IsOpen:          d.IsOpen,
	}

	if !d.IsOpen {
		return s
	}

	s.OpenTime = types.TimeString(d.OpenTime)
	s.CloseTime = types.TimeString(d.CloseTime)

	if d.BreakStart != nil {
		bs := types.TimeString(*d.BreakStart)
		s.BreakStart = &bs
	}
	if d.BreakEnd != nil {
		be := types.TimeString(*d.BreakEnd)
		s.BreakEnd = &be
	}

	return s
}

// Response модели

// DayScheduleResponse рабочие часы одного дня недели
type DayScheduleResponse struct {
	DayOfWeek  int     `json:"dayOfWeek"`
	IsOpen     bool    `json:"isOpen"`
	OpenTime   string  `json:"openTime,omitempty"`
	CloseTime  string  `json:"closeTime,omitempty"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// ScheduleResponse недельное расписание заведения
type ScheduleResponse struct {
	EstablishmentID int64                 `json:"establishmentId"`
	Days            []DayScheduleResponse `json:"days"`
}

// FromDomainSchedules собирает недельный ответ из строк расписания
// Дни без строки в БД отдаются как закрытые - представление всегда на 7 дней
func FromDomainSchedules(establishmentID int64, schedules []*domain.Schedule) *ScheduleResponse {
	byDay := make(map[int]*domain.Schedule, len(schedules))
	for _, s := range schedules {
		byDay[s.DayOfWeek] = s
	}

	resp := &ScheduleResponse{
		EstablishmentID: establishmentID,
		Days:            make([]DayScheduleResponse, 0, 7),
	}

	for day := domain.MinDayOfWeek; day <= domain.MaxDayOfWeek; day++ {
		s, ok := byDay[day]
		if !ok || !s.IsOpen {
			resp.Days = append(resp.Days, DayScheduleResponse{DayOfWeek: day, IsOpen: false})
			continue
		}

		dayResp := DayScheduleResponse{
			DayOfWeek: day,
			IsOpen:    true,
			OpenTime:  s.OpenTime.String(),
			CloseTime: s.CloseTime.String(),
		}

		if s.BreakStart != nil {
			bs := s.BreakStart.String()
			dayResp.BreakStart = &bs
		}
		if s.BreakEnd != nil {
			be := s.BreakEnd.String()
			dayResp.BreakEnd = &be
		}

		resp.Days = append(resp.Days, dayResp)
	}

	return resp
}
