package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrSlotConflict время уже занято другим активным бронированием
var ErrSlotConflict = errors.New("slot conflicts with an existing booking")

// ConflictError конфликт конкретной строки услуги на момент записи
type ConflictError struct {
	ServiceName string
	StartTime   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s at %s is no longer available", e.ServiceName, e.StartTime.Format(time.RFC3339))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

// FindConflict ищет занятый интервал, пересекающийся с r
func FindConflict(intervals []StaffInterval, r TimeRange) (StaffInterval, bool) {
	for _, interval := range intervals {
		if interval.Range.Overlaps(r) {
			return interval, true
		}
	}
	return StaffInterval{}, false
}
