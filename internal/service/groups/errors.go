package groups

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	ErrAppointmentNotFound = errors.New("groups: appointment not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("groups: client not found")

	// ErrNotGroupBooking возвращается для обычного (не группового) бронирования
	ErrNotGroupBooking = errors.New("groups: appointment is not a group booking")

	// ErrGroupClosed возвращается, когда бронирование уже не занимает время
	ErrGroupClosed = errors.New("groups: group booking is no longer active")

	// ErrGroupFull возвращается, когда все места в группе заняты
	ErrGroupFull = errors.New("groups: group is full")

	// ErrDuplicateParticipant возвращается при повторном добавлении клиента
	ErrDuplicateParticipant = errors.New("groups: client is already a participant")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("groups: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("groups: internal error")
)
