package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	slotGranularity = domain.SlotGranularityMinutes * time.Minute
	minLeadTime     = domain.MinLeadTimeMinutes * time.Minute
)

// walkSlots проходит рабочий интервал с шагом slotGranularity начиная с earliest.
// Для каждого кандидата t резервируется [t, t+plan.Total()); если резерв
// пересекается с blocked, кандидат пропускается. Возвращает видимые окна слотов.
func walkSlots(working domain.TimeRange, plan domain.SlotPlan, blocked domain.BlockedRanges, earliest time.Time) []domain.TimeRange {
	slots := make([]domain.TimeRange, 0)
	if plan.Total() <= 0 || !working.IsValid() {
		return slots
	}

	t := working.Start
	if earliest.After(t) {
		t = earliest
	}

	for ; ; t = t.Add(slotGranularity) {
		reserved := plan.Reserved(t)
		if reserved.End.After(working.End) {
			break
		}
		if blocked.Overlaps(reserved) {
			continue
		}
		slots = append(slots, plan.Visible(t))
	}

	return slots
}

// earliestStart возвращает самое раннее начало слота для даты.
// Для сегодняшнего дня now округляется вверх до шага сетки от полуночи
// и к нему прибавляется минимальное время до начала записи.
func earliestStart(date, now time.Time) time.Time {
	now = now.In(date.Location())
	if !domain.IsSameDay(date, now) {
		return time.Time{}
	}

	midnight := domain.DateOnly(now)
	sinceMidnight := now.Sub(midnight)
	rounded := sinceMidnight.Truncate(slotGranularity)
	if rounded < sinceMidnight {
		rounded += slotGranularity
	}

	return midnight.Add(rounded).Add(minLeadTime)
}
