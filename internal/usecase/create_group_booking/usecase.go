package create_group_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

// UseCase use case для создания группового бронирования
type UseCase struct {
	creator BookingCreator
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(creator BookingCreator, logger Logger) *UseCase {
	return &UseCase{
		creator: creator,
		logger:  logger,
	}
}

// Execute создает одно бронирование на несколько клиентов.
// Проверка слота, цены и запись участников выполняются в create_booking.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateGroupBooking: business=%d, service=%d, staff=%d, start=%s, participants=%d/%d",
		req.BusinessID, req.ServiceID, req.StaffID, req.StartTime.Format(time.RFC3339),
		len(req.ClientIDs), req.MaxParticipants)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateGroupBooking: validation failed: %v", err)
		return nil, err
	}

	return uc.creator.Execute(ctx, &create_booking.Request{
		BusinessID: req.BusinessID,
		LocationID: req.LocationID,
		Services: []create_booking.ServiceLine{{
			ServiceID: req.ServiceID,
			StaffID:   req.StaffID,
			StartTime: req.StartTime,
		}},
		Notes:  req.Notes,
		Source: req.Source,
		Group: &create_booking.GroupInfo{
			MaxParticipants: req.MaxParticipants,
			ClientIDs:       req.ClientIDs,
		},
	})
}
