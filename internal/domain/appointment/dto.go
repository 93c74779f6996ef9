package appointment

// CreateRequest is the public booking submission.
type CreateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
	Company  string `json:"company" validate:"omitempty,max=255"`
	Service  string `json:"service" validate:"required,max=255"`
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required"`
	Message  string `json:"message" validate:"omitempty,max=5000"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// Outcome is one appointment's result in a batch sweep.
type Outcome struct {
	AppointmentID int64  `json:"appointment_id"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
}

const (
	OutcomeSent      = "sent"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
	OutcomeSkipped   = "skipped"
)

type ReminderReport struct {
	Sent    int       `json:"sent"`
	Failed  int       `json:"failed"`
	Results []Outcome `json:"results"`
}

type ExpiryReport struct {
	Cancelled int       `json:"cancelled"`
	Failed    int       `json:"failed"`
	Results   []Outcome `json:"results"`
}

type ListResponse struct {
	Items  []Appointment `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
