package schedule

import "errors"

var (
	// ErrInvalidSchedule возвращается при некорректной конфигурации рабочих часов
	ErrInvalidSchedule = errors.New("invalid schedule configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
