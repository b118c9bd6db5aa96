package create_group_booking

import "time"

// Request модель запроса на групповое бронирование
type Request struct {
	BusinessID      int64
	LocationID      int64
	ServiceID       int64
	StaffID         int64
	StartTime       time.Time
	MaxParticipants int
	ClientIDs       []int64
	Notes           *string
	Source          string
}
