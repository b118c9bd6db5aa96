package domain

import (
	"errors"
	"fmt"
)

// AppointmentStatus статус жизненного цикла бронирования
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusCheckedIn  AppointmentStatus = "checked_in"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

var (
	ErrUnknownStatus     = errors.New("unknown appointment status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InvalidTransitionError описывает запрещённый переход между статусами
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %s to %s", e.From, e.To)
}

// Is позволяет сравнивать через errors.Is(err, ErrInvalidTransition)
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ParseAppointmentStatus парсит статус из строки
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal проверяет, что из статуса нет переходов
func (s AppointmentStatus) IsTerminal() bool {
	return len(s.AllowedTransitions()) == 0
}

// BlocksTime проверяет, занимает ли бронирование в этом статусе время сотрудника
func (s AppointmentStatus) BlocksTime() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// AllowedTransitions возвращает статусы, в которые можно перейти из s
func (s AppointmentStatus) AllowedTransitions() []AppointmentStatus {
	switch s {
	case StatusPending:
		return []AppointmentStatus{StatusConfirmed, StatusCancelled}
	case StatusConfirmed:
		return []AppointmentStatus{StatusCheckedIn, StatusCancelled, StatusNoShow}
	case StatusCheckedIn:
		return []AppointmentStatus{StatusInProgress, StatusCancelled}
	case StatusInProgress:
		return []AppointmentStatus{StatusCompleted, StatusCancelled}
	default:
		return nil
	}
}

// CanTransitionTo проверяет допустимость перехода
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, allowed := range s.AllowedTransitions() {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition возвращает *InvalidTransitionError для запрещённого перехода
func ValidateTransition(from, to AppointmentStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// NonBlockingStatuses статусы, которые не занимают время сотрудника
func NonBlockingStatuses() []string {
	return []string{string(StatusCancelled), string(StatusNoShow)}
}
