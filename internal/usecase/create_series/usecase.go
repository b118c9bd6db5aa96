package create_series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

// UseCase use case для создания повторяющейся серии бронирований
type UseCase struct {
	creator     BookingCreator
	location    *time.Location
	newSeriesID func() string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(creator BookingCreator, location *time.Location, logger Logger) *UseCase {
	return &UseCase{
		creator:     creator,
		location:    location,
		newSeriesID: uuid.NewString,
		logger:      logger,
	}
}

// Execute создает вхождения серии по одному, каждое в своей транзакции.
// Вхождение, на которое время уже занято, пропускается; любая другая ошибка
// прерывает серию и возвращается вместе с уже созданными вхождениями.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSeries: business=%d, rule=%s, until=%s",
		req.BusinessID, req.Rule, req.Until.Format(time.DateOnly))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSeries: validation failed: %v", err)
		return nil, err
	}

	// 2. Генерируем даты вхождений от первой услуги
	base := req.Services[0].StartTime.In(uc.location)
	occurrences, err := domain.GenerateOccurrences(base, req.Rule, domain.OnSameDate(req.Until, uc.location))
	if err != nil {
		uc.logger.Warn("CreateSeries: failed to generate occurrences: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	resp := &Response{
		SeriesID: uc.newSeriesID(),
		Rule:     req.Rule,
		Created:  make([]*domain.Appointment, 0, len(occurrences)),
		Skipped:  make([]SkippedOccurrence, 0),
	}
	var parentID *int64

	// 3. Создаем вхождения
	for _, start := range occurrences {
		bookingReq := uc.occurrenceRequest(req, base, start, resp.SeriesID, parentID)

		appointment, err := uc.creator.Execute(ctx, bookingReq)
		if err != nil {
			reason, skippable := skipReason(err)
			if !skippable {
				uc.logger.Error("CreateSeries: series=%s aborted at %s: %v",
					resp.SeriesID, start.Format(time.DateOnly), err)
				return resp, err
			}
			uc.logger.Warn("CreateSeries: series=%s skips %s: %v", resp.SeriesID, start.Format(time.DateOnly), err)
			resp.Skipped = append(resp.Skipped, SkippedOccurrence{
				Date:    domain.DateOnly(start),
				Reason:  reason,
				Message: err.Error(),
			})
			continue
		}

		if parentID == nil {
			id := appointment.ID
			parentID = &id
		}
		resp.Created = append(resp.Created, appointment)
	}

	if len(resp.Created) == 0 {
		uc.logger.Warn("CreateSeries: series=%s has no free occurrence", resp.SeriesID)
		return resp, ErrSeriesEmpty
	}

	uc.logger.Info("CreateSeries: series=%s created=%d skipped=%d",
		resp.SeriesID, len(resp.Created), len(resp.Skipped))
	return resp, nil
}

// occurrenceRequest сдвигает все услуги на смещение вхождения, сохраняя их взаимное расположение
func (uc *UseCase) occurrenceRequest(req *Request, base, start time.Time, seriesID string, parentID *int64) *create_booking.Request {
	lines := make([]create_booking.ServiceLine, len(req.Services))
	for i, line := range req.Services {
		lines[i] = line
		lines[i].StartTime = start.Add(line.StartTime.In(uc.location).Sub(base))
	}

	return &create_booking.Request{
		BusinessID: req.BusinessID,
		LocationID: req.LocationID,
		ClientID:   req.ClientID,
		Services:   lines,
		Notes:      req.Notes,
		Source:     req.Source,
		Series: &create_booking.SeriesInfo{
			ID:                  seriesID,
			ParentAppointmentID: parentID,
			Rule:                req.Rule,
		},
	}
}

func skipReason(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrSlotConflict):
		return SkipReasonConflict, true
	case errors.Is(err, create_booking.ErrSlotUnavailable):
		return SkipReasonUnavailable, true
	}
	return "", false
}
