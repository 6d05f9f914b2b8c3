package get_available_slots

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	EstablishmentID int64     // ID заведения
	ProfessionalID  int64     // ID мастера
	ServiceIDs      []int64   // Цепочка услуг в порядке выполнения
	Date            time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                 time.Time          // Дата, на которую запрашивались слоты
	EstablishmentID      int64              // ID заведения
	ProfessionalID       int64              // ID мастера
	TotalDurationMinutes int                // Суммарная длительность цепочки услуг
	TotalPrice           float64            // Суммарная цена цепочки услуг
	Slots                []types.TimeString // Свободные времена начала по возрастанию
}
