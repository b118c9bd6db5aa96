package list_bookings

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует фильтр из query параметров.
// dateFrom и dateTo включительные даты в часовом поясе салона.
func ToServiceRequest(r *http.Request, loc *time.Location) (*models.ListRequest, error) {
	locationID, errLocation := handlers.QueryInt64(r, "locationId")
	staffID, errStaff := handlers.QueryInt64(r, "staffId")
	clientID, errClient := handlers.QueryInt64(r, "clientId")
	dateFrom, errFrom := handlers.QueryDate(r, "dateFrom")
	dateTo, errTo := handlers.QueryDate(r, "dateTo")
	if err := errors.Join(errLocation, errStaff, errClient, errFrom, errTo); err != nil {
		return nil, err
	}

	req := &models.ListRequest{
		LocationID: locationID,
		StaffID:    staffID,
		ClientID:   clientID,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	if dateFrom != nil {
		from := inLocation(*dateFrom, loc)
		req.DateFrom = &from
	}
	if dateTo != nil {
		to := inLocation(*dateTo, loc).AddDate(0, 0, 1)
		req.DateTo = &to
	}

	var err error
	if req.Limit, err = queryInt(r, "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = queryInt(r, "offset"); err != nil {
		return nil, err
	}

	return req, nil
}

func inLocation(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}
