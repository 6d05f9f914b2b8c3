package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден или неактивен
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrCannotCancel возвращается, когда запись не может быть отменена
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrCannotReschedule возвращается, когда запись не может быть перенесена
	ErrCannotReschedule = errors.New("appointment cannot be rescheduled")

	// ErrEstablishmentClosed возвращается при переносе на закрытый день
	ErrEstablishmentClosed = errors.New("establishment is closed on this day")

	// ErrSlotOutsideWorkingHours возвращается при переносе вне рабочего окна
	ErrSlotOutsideWorkingHours = errors.New("slot is outside working hours")

	// ErrSlotInPast возвращается при переносе на прошедшее время
	ErrSlotInPast = errors.New("slot is in the past")

	// ErrSlotConflict возвращается, когда новый слот пересекается с другой записью
	ErrSlotConflict = errors.New("slot conflicts with an existing appointment")

	// ErrInvalidSchedule возвращается при сломанной конфигурации рабочих часов
	ErrInvalidSchedule = errors.New("invalid schedule configuration")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)
