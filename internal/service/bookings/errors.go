package bookings

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	// или принадлежит другому бизнесу
	ErrAppointmentNotFound = errors.New("bookings: appointment not found")

	// ErrCannotCancel возвращается, когда бронирование уже завершено или отменено
	ErrCannotCancel = errors.New("bookings: appointment cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
