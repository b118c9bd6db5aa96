package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BusinessID    int64
	AppointmentID int64
	StartTime     time.Time // новое начало бронирования
	StaffID       *int64    // если задан, все строки переходят к этому сотруднику
}
