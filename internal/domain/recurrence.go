package domain

import (
	"errors"
	"fmt"
	"time"
)

// RecurrenceRule правило повторения серии
type RecurrenceRule string

const (
	RecurrenceWeekly   RecurrenceRule = "weekly"
	RecurrenceBiweekly RecurrenceRule = "biweekly"
	RecurrenceMonthly  RecurrenceRule = "monthly"
)

var (
	ErrUnknownRecurrenceRule = errors.New("unknown recurrence rule")
	ErrInvalidSeriesEnd      = errors.New("series end date is before start date")
)

// ParseRecurrenceRule парсит правило повторения
func ParseRecurrenceRule(s string) (RecurrenceRule, error) {
	rule := RecurrenceRule(s)
	switch rule {
	case RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly:
		return rule, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRecurrenceRule, s)
}

// occurrence возвращает k-е вхождение серии, считая от базовой даты
func (r RecurrenceRule) occurrence(base time.Time, k int) time.Time {
	switch r {
	case RecurrenceWeekly:
		return base.AddDate(0, 0, 7*k)
	case RecurrenceBiweekly:
		return base.AddDate(0, 0, 14*k)
	default:
		return addMonthsClamped(base, k)
	}
}

// GenerateOccurrences возвращает начала всех вхождений серии от start до until
// включительно (по календарной дате), не более MaxSeriesOccurrences
func GenerateOccurrences(start time.Time, rule RecurrenceRule, until time.Time) ([]time.Time, error) {
	if _, err := ParseRecurrenceRule(string(rule)); err != nil {
		return nil, err
	}
	if CompareDates(until, start) < 0 {
		return nil, ErrInvalidSeriesEnd
	}

	occurrences := make([]time.Time, 0, 8)
	for k := 0; len(occurrences) < MaxSeriesOccurrences; k++ {
		next := rule.occurrence(start, k)
		if CompareDates(next, until) > 0 {
			break
		}
		occurrences = append(occurrences, next)
	}
	return occurrences, nil
}

// addMonthsClamped сдвигает дату на n месяцев, прижимая день к концу месяца
// (31 января + 1 месяц = 28/29 февраля)
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return firstOfTarget.AddDate(0, 0, d-1)
}
