package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	BusinessID int64
	LocationID int64
	ClientID   *int64 // nil для walk-in и групповых бронирований
	Services   []ServiceLine
	Notes      *string
	Source     string // по умолчанию online

	Series *SeriesInfo // заполняется генератором серий
	Group  *GroupInfo  // заполняется для групповых бронирований
}

// ServiceLine одна услуга в бронировании
type ServiceLine struct {
	ServiceID int64
	StaffID   int64
	StartTime time.Time // видимое клиенту начало
}

// SeriesInfo принадлежность вхождения к серии
type SeriesInfo struct {
	ID                  string
	ParentAppointmentID *int64
	Rule                domain.RecurrenceRule
}

// GroupInfo параметры группового бронирования
type GroupInfo struct {
	MaxParticipants int
	ClientIDs       []int64
}

// participants количество оплачиваемых мест
func (r *Request) participants() int {
	if r.Group == nil {
		return 1
	}
	return len(r.Group.ClientIDs)
}
