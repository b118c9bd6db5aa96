package domain

import "time"

// AvailableSlot свободный слот сотрудника (видимое клиенту время)
type AvailableSlot struct {
	StaffID   int64
	StaffName string
	StartTime time.Time
	EndTime   time.Time
}

// Range интервал слота
func (s *AvailableSlot) Range() TimeRange {
	return TimeRange{Start: s.StartTime, End: s.EndTime}
}

// StaffAvailability свободные слоты одного сотрудника на дату
type StaffAvailability struct {
	StaffID   int64
	StaffName string
	Slots     []AvailableSlot
}

// HasSlots проверяет, есть ли у сотрудника хотя бы один свободный слот
func (s *StaffAvailability) HasSlots() bool {
	return len(s.Slots) > 0
}

// MergedSlot слот, доступный хотя бы у одного сотрудника
type MergedSlot struct {
	StartTime time.Time
	EndTime   time.Time
	StaffIDs  []int64
}
