package reschedule_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	ErrAppointmentNotFound = errors.New("reschedule_booking: appointment not found")

	// ErrStaffNotFound возвращается, когда новый сотрудник не найден
	ErrStaffNotFound = errors.New("reschedule_booking: staff not found")

	// ErrServiceNotFound возвращается, когда услуга строки не найдена
	ErrServiceNotFound = errors.New("reschedule_booking: service not found")

	// ErrNotReschedulable возвращается для бронирований, которые уже начались или завершены
	ErrNotReschedulable = errors.New("reschedule_booking: appointment cannot be rescheduled in its current status")

	// ErrSlotUnavailable возвращается, когда новое время не входит в свободные слоты
	ErrSlotUnavailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)

// SlotUnavailableError новое время строки не прошло предварительную проверку
type SlotUnavailableError struct {
	ServiceName string
	StartTime   time.Time
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s at %s is not available",
		ErrSlotUnavailable.Error(), e.ServiceName, e.StartTime.Format(time.RFC3339))
}

func (e *SlotUnavailableError) Is(target error) bool {
	return target == ErrSlotUnavailable
}
