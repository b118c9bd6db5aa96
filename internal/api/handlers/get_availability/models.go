package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string          `json:"date"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Staff           []StaffSlots    `json:"staff"`
	AllSlots        []MergedSlotDTO `json:"allSlots"`
}

// StaffSlots свободные слоты одного сотрудника
type StaffSlots struct {
	StaffID   int64     `json:"staffId"`
	StaffName string    `json:"staffName"`
	Slots     []SlotDTO `json:"slots"`
}

// SlotDTO видимое клиенту окно услуги
type SlotDTO struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// MergedSlotDTO слот с сотрудниками, у которых он свободен
type MergedSlotDTO struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	StaffIDs  []int64   `json:"staffIds"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Staff:           make([]StaffSlots, len(resp.Staff)),
		AllSlots:        make([]MergedSlotDTO, len(resp.AllSlots)),
	}

	for i, staff := range resp.Staff {
		slots := make([]SlotDTO, len(staff.Slots))
		for j, slot := range staff.Slots {
			slots[j] = SlotDTO{StartTime: slot.StartTime, EndTime: slot.EndTime}
		}
		out.Staff[i] = StaffSlots{StaffID: staff.StaffID, StaffName: staff.StaffName, Slots: slots}
	}

	for i, slot := range resp.AllSlots {
		out.AllSlots[i] = MergedSlotDTO{StartTime: slot.StartTime, EndTime: slot.EndTime, StaffIDs: slot.StaffIDs}
	}

	return out
}
