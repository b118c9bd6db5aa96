package appointment

import "errors"

// Уникальные ограничения схемы
const (
	ConstraintStaffStart       = "uq_appointment_services_staff_start"
	ConstraintBookingReference = "uq_appointments_booking_reference"
)

var (
	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrParticipantExists возвращается при повторном добавлении участника
	ErrParticipantExists = errors.New("appointment.repository: participant already added")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
