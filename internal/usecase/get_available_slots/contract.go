package get_available_slots

import (
	"context"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByProfessionalAndDate возвращает снапшот неотмененных записей мастера на дату
	GetByProfessionalAndDate(ctx context.Context, establishmentID, professionalID int64, date time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByEstablishment(ctx context.Context, establishmentID int64) ([]*domain.Schedule, error)
}

// CatalogRepository интерфейс каталога услуг и мастеров
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, establishmentID int64, ids []int64) ([]*domain.ServiceOffering, error)
	GetProfessionalByID(ctx context.Context, establishmentID, professionalID int64) (*domain.Professional, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
