package participants

import "github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"

// AddParticipantRequest тело запроса на добавление участника
type AddParticipantRequest struct {
	ClientID int64 `json:"clientId"`
}

// ParticipantListResponse список участников группы
type ParticipantListResponse struct {
	AppointmentID int64                        `json:"appointmentId"`
	Participants  []models.ParticipantResponse `json:"participants"`
}
