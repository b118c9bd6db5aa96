package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// StaffSchedule рабочие часы сотрудника в конкретный день недели на локации
type StaffSchedule struct {
	ID             int64
	StaffID        int64
	LocationID     int64
	DayOfWeek      time.Weekday
	StartTime      types.TimeString
	EndTime        types.TimeString
	EffectiveFrom  *time.Time
	EffectiveUntil *time.Time
	IsActive       bool
	Breaks         []Break
}

// AppliesOn проверяет, действует ли расписание в указанную дату
func (s *StaffSchedule) AppliesOn(date time.Time) bool {
	if !s.IsActive || s.DayOfWeek != date.Weekday() {
		return false
	}
	if s.EffectiveFrom != nil && CompareDates(date, *s.EffectiveFrom) < 0 {
		return false
	}
	if s.EffectiveUntil != nil && CompareDates(date, *s.EffectiveUntil) > 0 {
		return false
	}
	return true
}

// WorkingRange рабочие часы на дату в часовом поясе date
func (s *StaffSchedule) WorkingRange(date time.Time) TimeRange {
	return TimeRange{Start: s.StartTime.OnDate(date), End: s.EndTime.OnDate(date)}
}

// BreakRanges перерывы на дату
func (s *StaffSchedule) BreakRanges(date time.Time) []TimeRange {
	ranges := make([]TimeRange, 0, len(s.Breaks))
	for _, b := range s.Breaks {
		ranges = append(ranges, b.OnDate(date))
	}
	return ranges
}

// SelectSchedule находит расписание, действующее в указанную дату.
// При нескольких подходящих записях выигрывает самая поздняя по EffectiveFrom.
func SelectSchedule(schedules []StaffSchedule, date time.Time) (*StaffSchedule, bool) {
	var selected *StaffSchedule
	for i := range schedules {
		s := &schedules[i]
		if !s.AppliesOn(date) {
			continue
		}
		if selected == nil || effectiveAfter(s, selected) {
			selected = s
		}
	}
	return selected, selected != nil
}

func effectiveAfter(a, b *StaffSchedule) bool {
	switch {
	case a.EffectiveFrom == nil:
		return false
	case b.EffectiveFrom == nil:
		return true
	default:
		return CompareDates(*a.EffectiveFrom, *b.EffectiveFrom) > 0
	}
}

// Break перерыв внутри рабочего дня
type Break struct {
	ID         int64
	ScheduleID int64
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// OnDate возвращает перерыв как интервал на дату
func (b Break) OnDate(date time.Time) TimeRange {
	return TimeRange{Start: b.StartTime.OnDate(date), End: b.EndTime.OnDate(date)}
}

// TimeOffStatus статус заявки на отгул
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// TimeOff отгул сотрудника. Без StartTime/EndTime занимает весь день.
type TimeOff struct {
	ID        int64
	StaffID   int64
	StartDate time.Time
	EndDate   time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Status    TimeOffStatus
	Reason    *string
}

// IsFullDay проверяет, что отгул не ограничен временем дня
func (t *TimeOff) IsFullDay() bool {
	return t.StartTime == nil || t.EndTime == nil || t.StartTime.IsZero() || t.EndTime.IsZero()
}

// CoversDate проверяет, что одобренный отгул приходится на дату
func (t *TimeOff) CoversDate(date time.Time) bool {
	if t.Status != TimeOffApproved {
		return false
	}
	return CompareDates(date, t.StartDate) >= 0 && CompareDates(date, t.EndDate) <= 0
}

// BlocksWholeDay проверяет, что сотрудник недоступен весь день date
func (t *TimeOff) BlocksWholeDay(date time.Time) bool {
	return t.CoversDate(date) && t.IsFullDay()
}

// RangeOn возвращает частичный отгул как интервал на дату
func (t *TimeOff) RangeOn(date time.Time) (TimeRange, bool) {
	if !t.CoversDate(date) || t.IsFullDay() {
		return TimeRange{}, false
	}
	return TimeRange{Start: t.StartTime.OnDate(date), End: t.EndTime.OnDate(date)}, true
}
