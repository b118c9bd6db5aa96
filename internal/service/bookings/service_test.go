package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

const seriesID = "7f9c2ba4-e88f-11ee-9d0b-0242ac120002"

var now = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type fakeAppointments struct {
	items    map[int64]*domain.Appointment
	lastList domain.AppointmentFilter
	updates  int
	seriesOp struct {
		from   *time.Time
		reason string
	}
}

func (r *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	clone := *a
	clone.Services = append([]domain.AppointmentService(nil), a.Services...)
	return &clone, nil
}

func (r *fakeAppointments) GetByReference(ctx context.Context, reference string) (*domain.Appointment, error) {
	for id, a := range r.items {
		if a.BookingReference == reference {
			return r.GetByID(ctx, id)
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *fakeAppointments) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.lastList = filter
	return []*domain.Appointment{r.items[1]}, nil
}

func (r *fakeAppointments) Update(_ context.Context, a *domain.Appointment) error {
	r.items[a.ID] = a
	r.updates++
	return nil
}

func (r *fakeAppointments) CancelSeries(_ context.Context, businessID int64, series string, from *time.Time, reason string, at time.Time) ([]int64, error) {
	r.seriesOp.from, r.seriesOp.reason = from, reason
	ids := make([]int64, 0)
	for id := int64(1); id <= int64(len(r.items)); id++ {
		a := r.items[id]
		if a.BusinessID != businessID || a.SeriesID == nil || *a.SeriesID != series || a.Status.IsTerminal() {
			continue
		}
		if from != nil && a.StartTime.Before(*from) {
			continue
		}
		a.Status = domain.StatusCancelled
		a.CancelledAt = &at
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeClients struct {
	clients map[int64]*domain.Client
	spent   map[int64]decimal.Decimal
}

func (c *fakeClients) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	client, ok := c.clients[id]
	if !ok {
		return nil, clientRepo.ErrClientNotFound
	}
	return client, nil
}

func (c *fakeClients) AddLifetimeSpend(_ context.Context, id int64, amount decimal.Decimal) error {
	c.spent[id] = c.spent[id].Add(amount)
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type recordingNotifier struct{ sent []notify.Notification }

func (n *recordingNotifier) Enqueue(notification notify.Notification) bool {
	n.sent = append(n.sent, notification)
	return true
}

type fixture struct {
	repo     *fakeAppointments
	clients  *fakeClients
	notifier *recordingNotifier
	service  *Service
}

func appointment(id int64, status domain.AppointmentStatus, clientID *int64) *domain.Appointment {
	start := now.Add(time.Duration(id) * 24 * time.Hour)
	return &domain.Appointment{
		ID:               id,
		BusinessID:       1,
		LocationID:       1,
		ClientID:         clientID,
		BookingReference: "SAL-MKX1Z2A-000" + string(rune('0'+id)),
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		Status:           status,
		Total:            decimal.NewFromInt(55),
		Services: []domain.AppointmentService{{
			ID: id, AppointmentID: id, ServiceID: 10, StaffID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: status,
		}},
	}
}

func newFixture() *fixture {
	f := &fixture{
		repo: &fakeAppointments{items: map[int64]*domain.Appointment{
			1: appointment(1, domain.StatusPending, ptr.Ptr(int64(5))),
			2: appointment(2, domain.StatusInProgress, ptr.Ptr(int64(5))),
			3: appointment(3, domain.StatusCompleted, ptr.Ptr(int64(6))),
			4: appointment(4, domain.StatusConfirmed, ptr.Ptr(int64(6))),
		}},
		clients: &fakeClients{
			clients: map[int64]*domain.Client{
				5: {ID: 5, BusinessID: 1, Email: ptr.Ptr("anna@example.com")},
				6: {ID: 6, BusinessID: 1},
			},
			spent: map[int64]decimal.Decimal{},
		},
		notifier: &recordingNotifier{},
	}
	f.repo.items[4].BusinessID = 2

	f.service = NewService(f.repo, f.clients, inlineTx{}, f.notifier, logger.NewNop())
	f.service.timeProvider = fixedClock{}
	return f
}

func TestService_GetByID(t *testing.T) {
	f := newFixture()

	got, err := f.service.GetByID(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "pending", got.Status)
	require.Len(t, got.Services, 1)
	require.NotNil(t, got.Client)
	assert.Equal(t, int64(5), got.Client.ID)
	assert.Equal(t, ptr.Ptr("anna@example.com"), got.Client.Email)

	_, err = f.service.GetByID(context.Background(), 1, 4)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = f.service.GetByID(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_GetByReference(t *testing.T) {
	f := newFixture()

	got, err := f.service.GetByReference(context.Background(), 1, " sal-mkx1z2a-0001 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = f.service.GetByReference(context.Background(), 1, "not-a-reference")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.GetByReference(context.Background(), 1, "SAL-MKX1Z2A-0004")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_List(t *testing.T) {
	f := newFixture()

	got, err := f.service.List(context.Background(), 1, &models.ListRequest{StaffID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	assert.Len(t, got.Appointments, 1)
	assert.Equal(t, int64(1), f.repo.lastList.BusinessID)
	assert.Equal(t, defaultListLimit, f.repo.lastList.Limit)

	_, err = f.service.List(context.Background(), 1, &models.ListRequest{Limit: 10_000})
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, f.repo.lastList.Limit)

	_, err = f.service.List(context.Background(), 1, &models.ListRequest{Status: ptr.Ptr("unknown")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.List(context.Background(), 1, &models.ListRequest{DateFrom: &now, DateTo: &now})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Update_Transitions(t *testing.T) {
	f := newFixture()

	got, err := f.service.Update(context.Background(), 1, 1, &models.UpdateRequest{Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	require.NotNil(t, f.repo.items[1].ConfirmationSentAt)
	assert.Equal(t, now, *f.repo.items[1].ConfirmationSentAt)
	assert.Equal(t, domain.StatusConfirmed, f.repo.items[1].Services[0].Status)
	require.NotNil(t, got.ConfirmationSentAt)
	assert.Equal(t, now, *got.ConfirmationSentAt)
}

func TestService_Update_ResponseCarriesStamps(t *testing.T) {
	f := newFixture()

	got, err := f.service.Update(context.Background(), 1, 2, &models.UpdateRequest{Status: ptr.Ptr("completed")})
	require.NoError(t, err)

	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, now, *got.CompletedAt)
	assert.Nil(t, got.NoShowAt)
	require.NotNil(t, got.Client)
	assert.Equal(t, int64(5), got.Client.ID)
}

func TestService_GetByID_MissingClientStillResponds(t *testing.T) {
	f := newFixture()
	f.repo.items[1].ClientID = ptr.Ptr(int64(404))

	got, err := f.service.GetByID(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Nil(t, got.Client)
	assert.Equal(t, ptr.Ptr(int64(404)), got.ClientID)
}

func TestService_Update_InvalidTransition(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(context.Background(), 1, 1, &models.UpdateRequest{Status: ptr.Ptr("completed")})

	var transitionErr *domain.InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, domain.StatusPending, transitionErr.From)
	assert.Equal(t, domain.StatusCompleted, transitionErr.To)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, f.repo.updates)
	assert.Equal(t, domain.StatusPending, f.repo.items[1].Status)
}

func TestService_Update_SameStatusRejected(t *testing.T) {
	tests := []struct {
		name   string
		id     int64
		status domain.AppointmentStatus
	}{
		{name: "pending", id: 1, status: domain.StatusPending},
		{name: "in progress", id: 2, status: domain.StatusInProgress},
		{name: "completed", id: 3, status: domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.service.Update(context.Background(), 1, tt.id, &models.UpdateRequest{Status: ptr.Ptr(string(tt.status))})

			var transitionErr *domain.InvalidTransitionError
			require.True(t, errors.As(err, &transitionErr))
			assert.Equal(t, tt.status, transitionErr.From)
			assert.Equal(t, tt.status, transitionErr.To)
			assert.Zero(t, f.repo.updates)
			assert.Empty(t, f.clients.spent)
		})
	}
}

func TestService_Update_CompletedAddsLifetimeSpend(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(context.Background(), 1, 2, &models.UpdateRequest{Status: ptr.Ptr("completed")})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(55).Equal(f.clients.spent[5]))
	assert.NotNil(t, f.repo.items[2].CompletedAt)
}

func TestService_Update_CancelNotifiesReachableClient(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(context.Background(), 1, 1, &models.UpdateRequest{
		Status:             ptr.Ptr("cancelled"),
		CancellationReason: ptr.Ptr("client is sick"),
		CancelledBy:        ptr.Ptr("front_desk"),
	})
	require.NoError(t, err)

	stored := f.repo.items[1]
	assert.Equal(t, "client is sick", *stored.CancellationReason)
	assert.Equal(t, "front_desk", *stored.CancelledBy)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notify.KindBookingCancelled, f.notifier.sent[0].Kind)
	assert.Equal(t, int64(1), f.notifier.sent[0].AppointmentID)
}

func TestService_Update_Notes(t *testing.T) {
	f := newFixture()

	got, err := f.service.Update(context.Background(), 1, 1, &models.UpdateRequest{InternalNotes: ptr.Ptr("prefers Anna")})
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "prefers Anna", *f.repo.items[1].InternalNotes)

	_, err = f.service.Update(context.Background(), 1, 1, &models.UpdateRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.Cancel(context.Background(), 1, 2, &models.CancelRequest{Reason: ptr.Ptr("double booked")}))
	assert.Equal(t, domain.StatusCancelled, f.repo.items[2].Status)
	assert.Len(t, f.notifier.sent, 1)

	err := f.service.Cancel(context.Background(), 1, 2, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)

	err = f.service.Cancel(context.Background(), 1, 3, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)

	err = f.service.Cancel(context.Background(), 1, 4, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_Cancel_ClientWithoutContacts(t *testing.T) {
	f := newFixture()
	f.repo.items[2].ClientID = ptr.Ptr(int64(6))

	require.NoError(t, f.service.Cancel(context.Background(), 1, 2, &models.CancelRequest{}))
	assert.Empty(t, f.notifier.sent)
}

func TestService_CancelSeries(t *testing.T) {
	f := newFixture()
	for _, id := range []int64{1, 2, 3} {
		f.repo.items[id].SeriesID = ptr.Ptr(seriesID)
	}
	from := now.Add(48 * time.Hour)

	got, err := f.service.CancelSeries(context.Background(), 1, &models.CancelSeriesRequest{SeriesID: seriesID, From: &from})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, got.AppointmentIDs)
	assert.Equal(t, 1, got.CancelledCount)
	assert.Equal(t, domain.StatusPending, f.repo.items[1].Status)
	assert.Equal(t, domain.StatusCompleted, f.repo.items[3].Status)
	assert.Equal(t, defaultSeriesCancellationReason, f.repo.seriesOp.reason)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notify.KindSeriesCancelled, f.notifier.sent[0].Kind)
	assert.Equal(t, seriesID, *f.notifier.sent[0].SeriesID)
}

func TestService_CancelSeries_InvalidID(t *testing.T) {
	f := newFixture()

	_, err := f.service.CancelSeries(context.Background(), 1, &models.CancelSeriesRequest{SeriesID: "abc"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.notifier.sent)
}
