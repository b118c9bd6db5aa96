package domain

import (
	"sort"
	"time"
)

// TimeRange полуоткрытый интервал [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создает интервал из начала и длительности
func NewTimeRange(start time.Time, d time.Duration) TimeRange {
	return TimeRange{Start: start, End: start.Add(d)}
}

// Overlaps проверяет пересечение интервалов.
// Соприкасающиеся интервалы (a.End == b.Start) не пересекаются.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Duration длительность интервала
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// IsValid возвращает true, если End строго позже Start
func (r TimeRange) IsValid() bool {
	return r.End.After(r.Start)
}

// Contains проверяет, что other целиком лежит внутри r
func (r TimeRange) Contains(other TimeRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// BlockedRanges интервалы, в которые сотрудника нельзя забронировать
type BlockedRanges []TimeRange

// NewBlockedRanges собирает отсортированный по началу набор блокировок,
// отбрасывая пустые интервалы
func NewBlockedRanges(ranges ...[]TimeRange) BlockedRanges {
	total := 0
	for _, group := range ranges {
		total += len(group)
	}

	blocked := make(BlockedRanges, 0, total)
	for _, group := range ranges {
		for _, r := range group {
			if r.IsValid() {
				blocked = append(blocked, r)
			}
		}
	}

	sort.SliceStable(blocked, func(i, j int) bool {
		return blocked[i].Start.Before(blocked[j].Start)
	})
	return blocked
}

// Overlaps проверяет пересечение с любым из интервалов
func (b BlockedRanges) Overlaps(r TimeRange) bool {
	_, found := b.FirstOverlap(r)
	return found
}

// FirstOverlap возвращает первый интервал, пересекающийся с r.
// Линейный проход: дневное число блокировок невелико.
func (b BlockedRanges) FirstOverlap(r TimeRange) (TimeRange, bool) {
	for _, blocked := range b {
		if blocked.Overlaps(r) {
			return blocked, true
		}
	}
	return TimeRange{}, false
}
