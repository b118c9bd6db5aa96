package create_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrSlotUnavailable возвращается, когда слот не найден среди свободных
	// при предварительной проверке (до транзакции)
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")

	errReferenceTaken = errors.New("create_booking: booking reference is already taken")
)

// SlotUnavailableError слот строки услуги не прошёл предварительную проверку
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
