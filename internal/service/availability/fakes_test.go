package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCatalog struct {
	services map[int64]*domain.Service
	staff    map[int64]*domain.Staff
	members  []*domain.Staff
}

func (f *fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetStaff(_ context.Context, id int64) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return s, nil
}

func (f *fakeCatalog) ListStaffForService(_ context.Context, _, _ int64) ([]*domain.Staff, error) {
	return f.members, nil
}

type fakeSchedules struct {
	schedules map[int64][]domain.StaffSchedule
	timeOff   map[int64][]domain.TimeOff
}

func (f *fakeSchedules) ListSchedules(_ context.Context, staffID, _ int64, weekday time.Weekday) ([]domain.StaffSchedule, error) {
	result := make([]domain.StaffSchedule, 0)
	for _, s := range f.schedules[staffID] {
		if s.DayOfWeek == weekday {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSchedules) ListApprovedTimeOff(_ context.Context, staffID int64, date time.Time) ([]domain.TimeOff, error) {
	result := make([]domain.TimeOff, 0)
	for _, t := range f.timeOff[staffID] {
		if t.CoversDate(date) {
			result = append(result, t)
		}
	}
	return result, nil
}

type fakeAppointments struct {
	intervals map[int64][]domain.StaffInterval
}

func (f *fakeAppointments) ListActiveStaffIntervals(_ context.Context, staffID int64, window domain.TimeRange, excludeID *int64) ([]domain.StaffInterval, error) {
	result := make([]domain.StaffInterval, 0)
	for _, iv := range f.intervals[staffID] {
		if excludeID != nil && iv.AppointmentID == *excludeID {
			continue
		}
		if iv.Range.Overlaps(window) {
			result = append(result, iv)
		}
	}
	return result, nil
}

// monday 2026-03-09
var monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func clockAt(t time.Time) fixedClock { return fixedClock{now: t} }

func workday(staffID int64, start, end string) domain.StaffSchedule {
	return domain.StaffSchedule{
		ID:         staffID * 10,
		StaffID:    staffID,
		LocationID: 1,
		DayOfWeek:  time.Monday,
		StartTime:  types.MustTimeString(start),
		EndTime:    types.MustTimeString(end),
		IsActive:   true,
	}
}

type fixture struct {
	catalog      *fakeCatalog
	schedules    *fakeSchedules
	appointments *fakeAppointments
}

func newFixture() *fixture {
	anna := &domain.Staff{ID: 1, Name: "Anna", CanAcceptBookings: true, IsActive: true}
	return &fixture{
		catalog: &fakeCatalog{
			services: map[int64]*domain.Service{
				10: {ID: 10, Name: "Haircut", DurationMinutes: 45, IsActive: true},
			},
			staff:   map[int64]*domain.Staff{1: anna},
			members: []*domain.Staff{anna},
		},
		schedules: &fakeSchedules{
			schedules: map[int64][]domain.StaffSchedule{1: {workday(1, "09:00", "18:00")}},
			timeOff:   map[int64][]domain.TimeOff{},
		},
		appointments: &fakeAppointments{intervals: map[int64][]domain.StaffInterval{}},
	}
}

func (f *fixture) calculator(now time.Time) *Calculator {
	return NewCalculator(f.catalog, f.schedules, f.appointments, clockAt(now), logger.NewNop())
}

func (f *fixture) book(staffID int64, start, end time.Time) {
	f.appointments.intervals[staffID] = append(f.appointments.intervals[staffID], domain.StaffInterval{
		AppointmentID: int64(len(f.appointments.intervals[staffID]) + 1),
		StaffID:       staffID,
		Range:         domain.TimeRange{Start: start, End: end},
	})
}
