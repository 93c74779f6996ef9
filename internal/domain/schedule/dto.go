package schedule

// TemplateRequest creates or replaces a weekly template.
type TemplateRequest struct {
	DayOfWeek       *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime       string `json:"start_time" validate:"required"`
	EndTime         string `json:"end_time" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
	IsActive        *bool  `json:"is_active"`
}

type BlockDateRequest struct {
	Date   string `json:"date" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}
