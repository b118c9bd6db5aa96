package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса свободных слотов
type Request struct {
	BusinessID int64     // для логирования
	ServiceID  int64     // ID услуги
	LocationID int64     // ID локации салона
	StaffID    *int64    // если задан, только этот сотрудник
	Date       time.Time // календарная дата (время не учитывается)
}

// Response модель ответа со слотами
type Response struct {
	Date            time.Time
	ServiceID       int64
	DurationMinutes int
	Staff           []domain.StaffAvailability
	AllSlots        []domain.MergedSlot
}
