package create_booking

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	EstablishmentID int64            // ID заведения
	ProfessionalID  int64            // ID мастера
	ServiceIDs      []int64          // Цепочка услуг в порядке выполнения
	Date            time.Time        // Дата записи (без времени)
	StartTime       types.TimeString // Время начала первой услуги
	CustomerName    string           // Имя клиента
	CustomerPhone   string           // Телефон клиента (ключ поиска)
	CustomerEmail   *string          // Email клиента (опционально)
	Notes           *string          // Заметки (опционально)
}

// CreatedAppointment одна созданная запись из цепочки
type CreatedAppointment struct {
	ID              int64
	ServiceID       int64
	ServiceName     string
	ServicePrice    float64
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
}

// Response модель ответа на создание записи
type Response struct {
	EstablishmentID      int64
	ProfessionalID       int64
	CustomerID           int64
	CustomerName         string
	CustomerPhone        string
	Date                 time.Time
	StartTime            types.TimeString
	EndTime              types.TimeString
	TotalDurationMinutes int
	TotalPrice           float64
	Appointments         []CreatedAppointment
	CreatedAt            time.Time
}
