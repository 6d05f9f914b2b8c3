package create_booking

import (
	"errors"
	"fmt"

	"github.com/agendafacil/booking-service/pkg/types"
)

var (
	// ErrProfessionalNotFound возвращается, когда мастер не найден или неактивен
	ErrProfessionalNotFound = errors.New("create_booking: professional not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrEstablishmentClosed возвращается, когда заведение закрыто в выбранный день
	ErrEstablishmentClosed = errors.New("create_booking: establishment is closed on this day")

	// ErrSlotOutsideWorkingHours возвращается, когда цепочка услуг не помещается
	// в рабочее окно или пересекает перерыв
	ErrSlotOutsideWorkingHours = errors.New("create_booking: slot is outside working hours")

	// ErrSlotInPast возвращается при попытке записи на прошедшее время
	ErrSlotInPast = errors.New("create_booking: slot is in the past")

	// ErrSlotConflict возвращается, когда слот пересекается с существующей записью
	ErrSlotConflict = errors.New("create_booking: slot conflicts with an existing appointment")

	// ErrInvalidSchedule возвращается при сломанной конфигурации рабочих часов
	ErrInvalidSchedule = errors.New("create_booking: invalid schedule configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictError несет детали конфликтующей записи для сообщения клиенту
// Разворачивается в ErrSlotConflict через errors.Is
type ConflictError struct {
	CustomerName string
	StartTime    types.TimeString
	EndTime      types.TimeString
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("create_booking: slot conflicts with appointment of %s at %s-%s",
		e.CustomerName, e.StartTime, e.EndTime)
}

// Unwrap позволяет errors.Is(err, ErrSlotConflict)
func (e *ConflictError) Unwrap() error {
	return ErrSlotConflict
}
