package domain

import "time"

// DateOnly возвращает полночь того же календарного дня в часовом поясе t
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// OnSameDate переносит календарную дату date в часовой пояс loc
func OnSameDate(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// CompareDates сравнивает календарные даты, игнорируя время и часовой пояс.
// Возвращает -1, 0 или 1.
func CompareDates(a, b time.Time) int {
	ka, kb := dateKey(a), dateKey(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(a, b time.Time) bool {
	return CompareDates(a, b) == 0
}

// IsDateInPast проверяет, что календарная дата date раньше календарной даты now
func IsDateInPast(date, now time.Time) bool {
	return CompareDates(date, now) < 0
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
