package create_booking

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/shopspring/decimal"
)

// monday 2026-03-09, clock stands one week earlier
var (
	monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now    = monday.AddDate(0, 0, -7).Add(8 * time.Hour)
)

func hm(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeStore struct {
	mu           sync.Mutex
	nextID       int64
	appointments []*domain.Appointment
	visits       map[int64]int
	createErr    error
	createErrs   []error // ошибки для первых вызовов Create
	createCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{visits: map[int64]int{}}
}

func (s *fakeStore) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		return nil, err
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	a.ID = s.nextID
	for i := range a.Services {
		a.Services[i].ID = s.nextID*100 + int64(i)
		a.Services[i].AppointmentID = a.ID
	}
	s.appointments = append(s.appointments, a)
	return a, nil
}

func (s *fakeStore) ListActiveStaffIntervals(_ context.Context, staffID int64, window domain.TimeRange, excludeID *int64) ([]domain.StaffInterval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.StaffInterval, 0)
	for _, a := range s.appointments {
		if !a.IsActive() || (excludeID != nil && a.ID == *excludeID) {
			continue
		}
		for _, line := range a.Services {
			if line.StaffID == staffID && line.Range().Overlaps(window) {
				result = append(result, domain.StaffInterval{AppointmentID: a.ID, StaffID: staffID, Range: line.Range()})
			}
		}
	}
	return result, nil
}

// seed добавляет уже существующее бронирование
func (s *fakeStore) seed(staffID int64, start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.appointments = append(s.appointments, &domain.Appointment{
		ID:     s.nextID,
		Status: domain.StatusConfirmed,
		Services: []domain.AppointmentService{
			{StaffID: staffID, StartTime: start, EndTime: end, Status: domain.StatusConfirmed},
		},
	})
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	if id == 404 {
		return nil, clientRepo.ErrClientNotFound
	}
	businessID := int64(1)
	if id == 777 {
		businessID = 2
	}
	return &domain.Client{ID: id, BusinessID: businessID}, nil
}

func (s *fakeStore) RecordVisit(_ context.Context, id int64, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits[id]++
	return nil
}

type fakeCatalog struct {
	services map[int64]*domain.Service
	staff    map[int64]*domain.Staff
	mu       sync.Mutex
	locked   []int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[int64]*domain.Service{
			10: {ID: 10, BusinessID: 1, Name: "Haircut", DurationMinutes: 45,
				Price: decimal.NewFromInt(50), TaxRate: decimal.NewFromInt(10), IsTaxable: true, IsActive: true},
			11: {ID: 11, BusinessID: 1, Name: "Coloring", DurationMinutes: 60,
				Price: decimal.NewFromInt(80), IsActive: true},
			12: {ID: 12, BusinessID: 1, Name: "Retired", DurationMinutes: 30, IsActive: false},
		},
		staff: map[int64]*domain.Staff{
			1: {ID: 1, BusinessID: 1, Name: "Anna", CanAcceptBookings: true, IsActive: true},
			2: {ID: 2, BusinessID: 1, Name: "Boris", CanAcceptBookings: true, IsActive: true},
		},
	}
}

func (c *fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := c.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (c *fakeCatalog) GetStaff(_ context.Context, id int64) (*domain.Staff, error) {
	s, ok := c.staff[id]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return s, nil
}

func (c *fakeCatalog) LockStaff(_ context.Context, staffID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = append(c.locked, staffID)
	return nil
}

// fakeAvailability отдаёт заранее заданный набор видимых начал слотов
type fakeAvailability struct {
	free map[int64][]time.Time
}

func (f *fakeAvailability) CalculateForStaff(_ context.Context, service *domain.Service, staff *domain.Staff, _ int64, _ time.Time) (*availability.Result, error) {
	result := &availability.Result{Service: service, Availability: domain.StaffAvailability{StaffID: staff.ID}}
	for _, start := range f.free[staff.ID] {
		result.Availability.Slots = append(result.Availability.Slots, domain.AvailableSlot{
			StaffID:   staff.ID,
			StartTime: start,
			EndTime:   start.Add(service.Duration()),
		})
	}
	return result, nil
}

// serialTxManager выполняет транзакции строго по одной
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeNotifier struct {
	mu     sync.Mutex
	reject bool
	sent   []notify.Notification
}

func (n *fakeNotifier) Enqueue(notification notify.Notification) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reject {
		return false
	}
	n.sent = append(n.sent, notification)
	return true
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeMetrics) IncBooking(_, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

func (m *fakeMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

type fixture struct {
	store        *fakeStore
	catalog      *fakeCatalog
	availability *fakeAvailability
	notifier     *fakeNotifier
	metrics      *fakeMetrics
}

func newFixture() *fixture {
	return &fixture{
		store:        newFakeStore(),
		catalog:      newFakeCatalog(),
		availability: &fakeAvailability{free: map[int64][]time.Time{}},
		notifier:     &fakeNotifier{},
		metrics:      &fakeMetrics{},
	}
}

func (f *fixture) free(staffID int64, starts ...time.Time) {
	f.availability.free[staffID] = append(f.availability.free[staffID], starts...)
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(
		f.store,
		f.catalog,
		f.store,
		f.availability,
		&serialTxManager{},
		f.notifier,
		f.metrics,
		time.UTC,
		logger.NewNop(),
	)
	uc.timeProvider = fixedClock{now: now}
	return uc
}

var zeroTime time.Time

const time30 = 30 * time.Minute
